package proc

import "github.com/netowner/netowner/pkg/model"

// ExplainState returns a human-readable explanation of a TCP state and,
// for states that usually point at a problem, a suggested workaround.
func ExplainState(state model.TCPState) (explanation, workaround string) {
	switch state {
	case model.StateListen:
		return "Actively listening for connections", ""
	case model.StateTimeWait:
		return "Connection closed, waiting for delayed packets",
			"Wait for timeout (usually 60s) or use SO_REUSEADDR"
	case model.StateCloseWait:
		return "Remote side closed connection, local side has not closed yet",
			"The application should call close() on the socket"
	case model.StateFinWait1:
		return "Local side initiated close, waiting for acknowledgment", ""
	case model.StateFinWait2:
		return "Local close acknowledged, waiting for remote close", ""
	case model.StateEstablished:
		return "Active connection", ""
	case model.StateSynSent:
		return "Connection request sent, waiting for response", ""
	case model.StateSynReceived:
		return "Connection request received, sending acknowledgment", ""
	case model.StateClosing:
		return "Both sides initiated close simultaneously", ""
	case model.StateLastAck:
		return "Waiting for final acknowledgment of close", ""
	case model.StateClosed:
		return "Socket is closed", ""
	case model.StateDeleteTCB:
		return "Transmission control block is being deleted", ""
	}
	return "Socket in " + state.String() + " state", ""
}

// IsProblematicState reports states that often explain "address already
// in use" errors or leaked sockets.
func IsProblematicState(state model.TCPState) bool {
	switch state {
	case model.StateTimeWait, model.StateCloseWait, model.StateFinWait1, model.StateFinWait2:
		return true
	}
	return false
}
