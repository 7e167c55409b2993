package utils

import "net"

type ifaceState struct {
	up       bool
	loopback bool
}

func netInterfaces() ([]ifaceState, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}
	states := make([]ifaceState, len(ifaces))
	for i, iface := range ifaces {
		states[i] = ifaceState{
			up:       iface.Flags&net.FlagUp != 0,
			loopback: iface.Flags&net.FlagLoopback != 0,
		}
	}
	return states, nil
}
