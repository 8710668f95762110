//go:build tinygo

// Package tinynet brings up the board's wifi link so net/http works on
// TinyGo targets.
package tinynet

import (
	"errors"
	"fmt"
	"net"
	"time"

	"tinygo.org/x/drivers/netlink"
	"tinygo.org/x/drivers/netlink/probe"
)

var link netlink.Netlinker

var errNoLink = errors.New("tinynet: not connected")

// NetConnect probes the board's network device and joins ssid.  It is a
// no-op if ssid is empty.
func NetConnect(ssid, pass string) error {
	if ssid == "" {
		return nil
	}

	// wait a bit for serial
	time.Sleep(2 * time.Second)

	link, _ = probe.Probe()

	err := link.NetConnect(&netlink.ConnectParams{
		Ssid:       ssid,
		Passphrase: pass,
	})
	if err != nil {
		return fmt.Errorf("tinynet: connect %q: %w", ssid, err)
	}

	if mac, err := GetHardwareAddr(); err == nil {
		fmt.Printf("Connected to %s, MAC %s\r\n", ssid, mac)
	}
	return nil
}

func GetHardwareAddr() (net.HardwareAddr, error) {
	if link == nil {
		return nil, errNoLink
	}
	return link.GetHardwareAddr()
}
