package records

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatResult renders a centisecond value as a clock time with leading
// zeros trimmed. FMC and MultiBlind values use their own encodings and are
// printed raw.
func FormatResult(value int, eventID string) string {
	if eventID == "333fm" || eventID == "333mbf" {
		return strconv.Itoa(value)
	}
	cs := value % 100
	secs := value / 100
	out := fmt.Sprintf("%d:%02d:%02d.%02d", secs/3600, (secs%3600)/60, secs%60, cs)
	for _, pad := range []string{"0:00:0", "0:00:", "0:0", "0:", "0"} {
		if strings.HasPrefix(out, pad) {
			out = out[len(pad):]
		}
	}
	return out
}
