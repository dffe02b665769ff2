package assert

import "github.com/bloeys/nbatch/logging"

// T panics with the formatted message if check is false.
// Asserts are compiled out when building with the 'release' tag.
func T(check bool, msg string, args ...any) {

	if isDebug && !check {
		logging.ErrLog.Panicf("Assert failed: "+msg, args...)
	}
}
