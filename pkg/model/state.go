package model

import (
	"fmt"
	"strconv"
	"strings"
)

// TCPState uses the MIB_TCP_STATE numbering.
type TCPState uint32

const (
	StateUnknown     TCPState = 0
	StateClosed      TCPState = 1
	StateListen      TCPState = 2
	StateSynSent     TCPState = 3
	StateSynReceived TCPState = 4
	StateEstablished TCPState = 5
	StateFinWait1    TCPState = 6
	StateFinWait2    TCPState = 7
	StateCloseWait   TCPState = 8
	StateClosing     TCPState = 9
	StateLastAck     TCPState = 10
	StateTimeWait    TCPState = 11
	StateDeleteTCB   TCPState = 12
)

var stateNames = map[TCPState]string{
	StateClosed:      "CLOSED",
	StateListen:      "LISTEN",
	StateSynSent:     "SYN_SENT",
	StateSynReceived: "SYN_RECEIVED",
	StateEstablished: "ESTABLISHED",
	StateFinWait1:    "FIN_WAIT_1",
	StateFinWait2:    "FIN_WAIT_2",
	StateCloseWait:   "CLOSE_WAIT",
	StateClosing:     "CLOSING",
	StateLastAck:     "LAST_ACK",
	StateTimeWait:    "TIME_WAIT",
	StateDeleteTCB:   "DELETE_TCB",
}

func (s TCPState) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%d)", uint32(s))
}

// Known reports whether s is one of the MIB_TCP_STATE values.
func (s TCPState) Known() bool {
	_, ok := stateNames[s]
	return ok
}

func (s TCPState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *TCPState) UnmarshalText(text []byte) error {
	parsed, err := ParseTCPState(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseTCPState accepts the names produced by String, the common
// netstat spellings (LISTENING, SYN_RECV, FIN_WAIT1...) and UNKNOWN(n).
func ParseTCPState(s string) (TCPState, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	switch name {
	case "LISTENING":
		return StateListen, nil
	case "SYN_RECV":
		return StateSynReceived, nil
	case "FIN_WAIT1":
		return StateFinWait1, nil
	case "FIN_WAIT2":
		return StateFinWait2, nil
	case "CLOSE":
		return StateClosed, nil
	}
	for state, known := range stateNames {
		if known == name {
			return state, nil
		}
	}
	if strings.HasPrefix(name, "UNKNOWN(") && strings.HasSuffix(name, ")") {
		n, err := strconv.ParseUint(name[len("UNKNOWN("):len(name)-1], 10, 32)
		if err == nil {
			return TCPState(n), nil
		}
	}
	return StateUnknown, fmt.Errorf("unknown tcp state %q", s)
}
