//go:build tinygo

// Sonar-tiny runs the ranging device on a TinyGo board with an HC-SR04 on D7
// (trigger) and D6 (echo) and the alert LED on D13.
//
// Settings are linked in, for example:
//
//	tinygo flash -target nano-rp2040 -ldflags \
//	  "-X main.ssid=home -X main.pass=secret -X main.detectURL=http://10.0.0.5:8080/detect" \
//	  ./sonar/cmd/sonar-tiny
package main

import (
	"context"
	"fmt"
	"machine"

	"github.com/merliot/ranger"
	"github.com/merliot/ranger/hcsr04"
	"github.com/merliot/ranger/led"
	"github.com/merliot/ranger/report"
	"github.com/merliot/ranger/sonar"
	"github.com/merliot/ranger/tinynet"
)

var (
	ssid       string
	pass       string
	id         = "sonar01"
	name       = "sonar"
	detectURL  string
	mqttBroker string
	mqttTopic  = "ranger/distance"
	hubURL     string
	user       string
	passwd     string
)

func main() {
	if err := tinynet.NetConnect(ssid, pass); err != nil {
		fmt.Printf("%s\r\n", err)
	}

	cfg := sonar.DefaultConfig()
	cfg.DetectURL = detectURL
	cfg.MQTTBroker = mqttBroker
	cfg.MQTTTopic = mqttTopic
	cfg.HubURL = hubURL

	sensor := hcsr04.New(hcsr04.NewGPIO(machine.D7, machine.D6), cfg.EchoTimeout)
	alert := led.NewPin(machine.D13)

	var reporters report.Multi
	if cfg.DetectURL != "" {
		reporters = append(reporters, report.NewHTTP(cfg.DetectURL, cfg.ReportTimeout))
	}
	if cfg.MQTTBroker != "" {
		m, err := report.NewMQTT(cfg.MQTTBroker, id, cfg.MQTTTopic, cfg.ReportTimeout)
		if err != nil {
			fmt.Printf("MQTT %s: %s\r\n", cfg.MQTTBroker, err)
		} else {
			reporters = append(reporters, m)
		}
	}

	s := sonar.New(id, "sonar", name, cfg, sensor, alert, reporters)

	ctx := context.Background()
	runner := ranger.NewRunner(s)
	if cfg.HubURL != "" {
		if err := runner.DialWebSocket(ctx, user, passwd, cfg.HubURL); err != nil {
			fmt.Printf("Hub %s: %s\r\n", cfg.HubURL, err)
		}
	}
	runner.Run(ctx)
}
