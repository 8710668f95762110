//go:build !tinygo

package main

import (
	"github.com/google/shlex"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/merliot/ranger/sonar"
)

type options struct {
	config  string
	id      string
	name    string
	tlsHost string
	// flag values, applied over the config file only when set
	flags sonar.Config
}

// mergeArgs places the shell-split env arguments ahead of argv, so the
// command line wins for flags given in both.
func mergeArgs(env string, argv []string) ([]string, error) {
	extra, err := shlex.Split(env)
	if err != nil {
		return nil, err
	}
	return append(extra, argv...), nil
}

func newRootCmd() *cobra.Command {
	return newRootCmdWith(&options{flags: sonar.DefaultConfig()})
}

func newRootCmdWith(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "sonar",
		Short:        "Ultrasonic ranging device",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(o, cmd)
		},
	}

	f := cmd.Flags()
	f.StringVar(&o.config, "config", "", "YAML config file")
	f.StringVar(&o.id, "id", "sonar01", "device id")
	f.StringVar(&o.name, "name", "sonar", "device name")
	f.StringVar(&o.tlsHost, "tls-host", "", "serve HTTPS on :443 with a Let's Encrypt certificate for this host")

	f.IntVar(&o.flags.Capacity, "capacity", o.flags.Capacity, "rolling window size")
	f.Uint32Var((*uint32)(&o.flags.ThresholdCm), "threshold", uint32(o.flags.ThresholdCm), "alert below this average, in cm")
	f.IntVar(&o.flags.BlinkCount, "blinks", o.flags.BlinkCount, "blinks per alert")
	f.DurationVar(&o.flags.SampleDelay, "sample-delay", o.flags.SampleDelay, "delay before each sample")
	f.DurationVar(&o.flags.LoopDelay, "loop-delay", o.flags.LoopDelay, "delay after each iteration")
	f.StringVar(&o.flags.DetectURL, "detect-url", "", "POST readings to this URL")
	f.StringVar(&o.flags.CameraURL, "camera-url", "", "probe this URL at startup")
	f.StringVar(&o.flags.MQTTBroker, "mqtt-broker", "", "publish readings to this broker")
	f.StringVar(&o.flags.MQTTTopic, "mqtt-topic", o.flags.MQTTTopic, "MQTT topic")
	f.StringVar(&o.flags.HubURL, "hub", "", "hub websocket URL")
	f.StringVar(&o.flags.Listen, "listen", o.flags.Listen, "HTTP listen address")
	f.StringVar(&o.flags.Sampler, "sampler", o.flags.Sampler, "hcsr04, maxbotix or sim")
	f.StringVar(&o.flags.TriggerPin, "trigger-pin", o.flags.TriggerPin, "HC-SR04 trigger pin")
	f.StringVar(&o.flags.EchoPin, "echo-pin", o.flags.EchoPin, "HC-SR04 echo pin")
	f.StringVar(&o.flags.LEDPin, "led-pin", o.flags.LEDPin, "alert LED pin")
	f.StringVar(&o.flags.SerialPort, "serial-port", "", "MaxBotix serial port")
	f.StringVar(&o.flags.SerialUnits, "serial-units", o.flags.SerialUnits, "MaxBotix units, cm or mm")

	return cmd
}

// setters copy one flag's value from src to dst
var setters = map[string]func(dst, src *sonar.Config){
	"capacity":     func(d, s *sonar.Config) { d.Capacity = s.Capacity },
	"threshold":    func(d, s *sonar.Config) { d.ThresholdCm = s.ThresholdCm },
	"blinks":       func(d, s *sonar.Config) { d.BlinkCount = s.BlinkCount },
	"sample-delay": func(d, s *sonar.Config) { d.SampleDelay = s.SampleDelay },
	"loop-delay":   func(d, s *sonar.Config) { d.LoopDelay = s.LoopDelay },
	"detect-url":   func(d, s *sonar.Config) { d.DetectURL = s.DetectURL },
	"camera-url":   func(d, s *sonar.Config) { d.CameraURL = s.CameraURL },
	"mqtt-broker":  func(d, s *sonar.Config) { d.MQTTBroker = s.MQTTBroker },
	"mqtt-topic":   func(d, s *sonar.Config) { d.MQTTTopic = s.MQTTTopic },
	"hub":          func(d, s *sonar.Config) { d.HubURL = s.HubURL },
	"listen":       func(d, s *sonar.Config) { d.Listen = s.Listen },
	"sampler":      func(d, s *sonar.Config) { d.Sampler = s.Sampler },
	"trigger-pin":  func(d, s *sonar.Config) { d.TriggerPin = s.TriggerPin },
	"echo-pin":     func(d, s *sonar.Config) { d.EchoPin = s.EchoPin },
	"led-pin":      func(d, s *sonar.Config) { d.LEDPin = s.LEDPin },
	"serial-port":  func(d, s *sonar.Config) { d.SerialPort = s.SerialPort },
	"serial-units": func(d, s *sonar.Config) { d.SerialUnits = s.SerialUnits },
}

// load reads the config file, if any, and applies the flags that were set
func (o *options) load(fs *pflag.FlagSet) (sonar.Config, error) {
	cfg := sonar.DefaultConfig()
	if o.config != "" {
		var err error
		if cfg, err = sonar.LoadConfig(o.config); err != nil {
			return cfg, err
		}
	}
	fs.Visit(func(f *pflag.Flag) {
		if set, ok := setters[f.Name]; ok {
			set(&cfg, &o.flags)
		}
	})
	return cfg, cfg.Validate()
}
