package sonar

import (
	"errors"
	"fmt"
	"time"

	"github.com/merliot/ranger"
	"github.com/merliot/ranger/actuator"
	"github.com/merliot/ranger/hcsr04"
	"github.com/merliot/ranger/report"
	"github.com/merliot/ranger/rolling"
)

// Samplers
const (
	SamplerHCSR04   = "hcsr04"
	SamplerMaxbotix = "maxbotix"
	SamplerSim      = "sim"
)

const (
	DefaultSampleDelay = 100 * time.Millisecond
	DefaultLoopDelay   = 500 * time.Millisecond
)

// Config is read once at startup and fixed for the life of the device
type Config struct {
	Capacity      int             `yaml:"capacity"`
	ThresholdCm   ranger.Distance `yaml:"threshold_cm"`
	BlinkCount    int             `yaml:"blink_count"`
	BlinkOn       time.Duration   `yaml:"blink_on"`
	BlinkOff      time.Duration   `yaml:"blink_off"`
	SampleDelay   time.Duration   `yaml:"sample_delay"`
	LoopDelay     time.Duration   `yaml:"loop_delay"`
	EchoTimeout   time.Duration   `yaml:"echo_timeout"`
	ReportTimeout time.Duration   `yaml:"report_timeout"`

	DetectURL  string `yaml:"detect_url"`
	CameraURL  string `yaml:"camera_url"`
	MQTTBroker string `yaml:"mqtt_broker"`
	MQTTTopic  string `yaml:"mqtt_topic"`
	HubURL     string `yaml:"hub_url"`
	Listen     string `yaml:"listen"`

	Sampler     string `yaml:"sampler"`
	TriggerPin  string `yaml:"trigger_pin"`
	EchoPin     string `yaml:"echo_pin"`
	LEDPin      string `yaml:"led_pin"`
	SerialPort  string `yaml:"serial_port"`
	SerialUnits string `yaml:"serial_units"`
}

func DefaultConfig() Config {
	act := actuator.DefaultConfig()
	return Config{
		Capacity:      rolling.DefaultCapacity,
		ThresholdCm:   act.ThresholdCm,
		BlinkCount:    act.BlinkCount,
		BlinkOn:       act.OnTime,
		BlinkOff:      act.OffTime,
		SampleDelay:   DefaultSampleDelay,
		LoopDelay:     DefaultLoopDelay,
		EchoTimeout:   hcsr04.DefaultEchoTimeout,
		ReportTimeout: report.DefaultTimeout,
		MQTTTopic:     "ranger/distance",
		Listen:        ":8080",
		Sampler:       SamplerHCSR04,
		TriggerPin:    "GPIO7",
		EchoPin:       "GPIO6",
		LEDPin:        "GPIO13",
		SerialUnits:   "cm",
	}
}

// Actuator returns the threshold actuator part of the config
func (c Config) Actuator() actuator.Config {
	return actuator.Config{
		ThresholdCm: c.ThresholdCm,
		BlinkCount:  c.BlinkCount,
		OnTime:      c.BlinkOn,
		OffTime:     c.BlinkOff,
	}
}

func (c Config) Validate() error {
	var errs []error
	if c.Capacity < 1 {
		errs = append(errs, fmt.Errorf("capacity %d: must be at least 1", c.Capacity))
	}
	if c.BlinkCount < 0 {
		errs = append(errs, fmt.Errorf("blink_count %d: must not be negative", c.BlinkCount))
	}
	for name, d := range map[string]time.Duration{
		"blink_on":       c.BlinkOn,
		"blink_off":      c.BlinkOff,
		"sample_delay":   c.SampleDelay,
		"loop_delay":     c.LoopDelay,
		"echo_timeout":   c.EchoTimeout,
		"report_timeout": c.ReportTimeout,
	} {
		if d < 0 {
			errs = append(errs, fmt.Errorf("%s %s: must not be negative", name, d))
		}
	}
	switch c.Sampler {
	case SamplerHCSR04:
		if c.TriggerPin == "" || c.EchoPin == "" {
			errs = append(errs, errors.New("sampler hcsr04: trigger_pin and echo_pin are required"))
		}
	case SamplerMaxbotix:
		if c.SerialPort == "" {
			errs = append(errs, errors.New("sampler maxbotix: serial_port is required"))
		}
		if c.SerialUnits != "cm" && c.SerialUnits != "mm" {
			errs = append(errs, fmt.Errorf("serial_units %q: must be cm or mm", c.SerialUnits))
		}
	case SamplerSim:
	default:
		errs = append(errs, fmt.Errorf("sampler %q: unknown", c.Sampler))
	}
	return errors.Join(errs...)
}
