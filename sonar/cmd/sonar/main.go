//go:build !tinygo

// Sonar runs the ranging device on a Linux board (or anywhere, with
// --sampler sim).
//
// Extra arguments can be passed in RANGER_ARGS, split shell-style and placed
// ahead of the command line.  Basic auth credentials for the server and hub
// come from RANGER_USER and RANGER_PASSWD.
package main

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/merliot/ranger"
	"github.com/merliot/ranger/actuator"
	"github.com/merliot/ranger/hcsr04"
	"github.com/merliot/ranger/led"
	"github.com/merliot/ranger/maxbotix"
	"github.com/merliot/ranger/report"
	"github.com/merliot/ranger/sim"
	"github.com/merliot/ranger/sonar"
)

func main() {
	argv, err := mergeArgs(os.Getenv("RANGER_ARGS"), os.Args[1:])
	if err != nil {
		fmt.Printf("RANGER_ARGS: %s\r\n", err)
		os.Exit(1)
	}
	cmd := newRootCmd()
	cmd.SetArgs(argv)
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(o *options, cmd *cobra.Command) error {
	cfg, err := o.load(cmd.Flags())
	if err != nil {
		return err
	}

	sampler, closer, err := newSampler(cfg)
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer.Close()
	}

	out, err := newLED(cfg)
	if err != nil {
		return err
	}

	reporter, closeReporter, err := newReporter(cfg, o.id)
	if err != nil {
		return err
	}
	defer closeReporter()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.CameraURL != "" {
		status, err := report.Probe(ctx, cfg.CameraURL, cfg.ReportTimeout)
		if err != nil {
			fmt.Printf("Camera %s: %s\r\n", cfg.CameraURL, err)
		} else {
			fmt.Printf("Camera %s: status %d\r\n", cfg.CameraURL, status)
		}
	}

	s := sonar.New(o.id, "sonar", o.name, cfg, sampler, out, reporter)

	user := ranger.GetEnv("RANGER_USER", "")
	passwd := ranger.GetEnv("RANGER_PASSWD", "")

	server := ranger.NewServer(s)
	server.Addr = cfg.Listen
	server.BasicAuth(user, passwd)
	server.Handle("/metrics", s.MetricsHandler())

	// open the listener up front so a bad address fails startup
	var ln net.Listener
	if o.tlsHost == "" {
		if ln, err = server.Listen(); err != nil {
			return err
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if cfg.HubURL != "" {
		if err := server.DialWebSocket(ctx, user, passwd, cfg.HubURL); err != nil {
			if ln != nil {
				ln.Close()
			}
			return err
		}
	}

	// a server that stops on its own stops the device too
	errc := make(chan error, 1)
	go func() {
		var err error
		if ln != nil {
			err = server.ServeListener(ctx, ln)
		} else {
			go func() {
				<-ctx.Done()
				server.Shutdown(context.Background())
			}()
			err = server.ServeTLS(o.tlsHost)
		}
		if err != nil {
			fmt.Printf("Server: %s\r\n", err)
		}
		cancel()
		errc <- err
	}()

	server.Run(ctx)
	cancel()

	return <-errc
}

func newSampler(cfg sonar.Config) (ranger.Sampler, io.Closer, error) {
	switch cfg.Sampler {
	case sonar.SamplerHCSR04:
		gpio, err := hcsr04.NewGPIO(cfg.TriggerPin, cfg.EchoPin)
		if err != nil {
			return nil, nil, err
		}
		return hcsr04.New(gpio, cfg.EchoTimeout), nil, nil
	case sonar.SamplerMaxbotix:
		units := maxbotix.Centimeters
		if cfg.SerialUnits == "mm" {
			units = maxbotix.Millimeters
		}
		return maxbotix.Open(cfg.SerialPort, units, maxbotix.DefaultWait)
	case sonar.SamplerSim:
		return sim.New(sim.DefaultConfig()), nil, nil
	}
	return nil, nil, fmt.Errorf("sampler %q: unknown", cfg.Sampler)
}

func newLED(cfg sonar.Config) (actuator.Output, error) {
	if cfg.Sampler == sonar.SamplerSim || cfg.LEDPin == "" {
		return &led.Console{Name: "alert"}, nil
	}
	return led.NewPin(cfg.LEDPin)
}

func newReporter(cfg sonar.Config, id string) (ranger.Reporter, func(), error) {
	var multi report.Multi
	closeAll := func() {}

	if cfg.DetectURL != "" {
		multi = append(multi, report.NewHTTP(cfg.DetectURL, cfg.ReportTimeout))
	}
	if cfg.MQTTBroker != "" {
		m, err := report.NewMQTT(cfg.MQTTBroker, id, cfg.MQTTTopic, cfg.ReportTimeout)
		if err != nil {
			return nil, closeAll, err
		}
		multi = append(multi, m)
		closeAll = m.Close
	}

	if len(multi) == 0 {
		fmt.Printf("No detect_url or mqtt_broker set, readings are not reported\r\n")
		return report.Discard{}, closeAll, nil
	}
	return multi, closeAll, nil
}
