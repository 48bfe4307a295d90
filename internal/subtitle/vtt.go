package subtitle

import (
	"bufio"
	"fmt"
	"io"
)

// WriteVTT renders records as WebVTT.
func WriteVTT(w io.Writer, subs []Subtitle, useTranslation bool) error {
	bw := bufio.NewWriter(w)
	bw.WriteString("WEBVTT\n\n")
	for i, s := range subs {
		fmt.Fprintf(bw, "%d\n%s --> %s\n%s\n\n",
			i+1, formatTimecode(s.Start, "."), formatTimecode(s.End, "."), Label(s, useTranslation))
	}
	return bw.Flush()
}
