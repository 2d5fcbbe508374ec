package spots

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/termlog/termlog/internal/core"
)

// clusterLine matches standard DX cluster spot lines:
//
//	DX de K0ABC:     14025.0  JA1XYZ       up 1 loud                  1834Z
var clusterLine = regexp.MustCompile(
	`^DX de\s+([A-Za-z0-9/\-#]+):?\s+([\d.]+)\s+([A-Za-z0-9/]+)\s*(.*?)\s*(\d{4})Z?\s*$`)

// modeTokens are mode hints commonly embedded in spot comments.
var modeTokens = []string{"FT8", "FT4", "JS8", "RTTY", "PSK31", "SSTV", "CW", "SSB", "FM", "AM"}

// ClusterFeed is a live connection to a DX cluster node.
type ClusterFeed struct {
	conn    net.Conn
	scanner *bufio.Scanner
}

// DialCluster connects to a cluster node and logs in with the given
// callsign. Most nodes accept the login line immediately after connect.
func DialCluster(ctx context.Context, host string, port int, callsign string) (*ClusterFeed, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", net.JoinHostPort(host, strconv.Itoa(port)))
	if err != nil {
		return nil, fmt.Errorf("dx cluster: %w", err)
	}

	if _, err := fmt.Fprintf(conn, "%s\r\n", strings.ToUpper(callsign)); err != nil {
		conn.Close()
		return nil, fmt.Errorf("dx cluster login: %w", err)
	}

	return &ClusterFeed{
		conn:    conn,
		scanner: bufio.NewScanner(conn),
	}, nil
}

// Next blocks until the node sends the next spot line, skipping chatter
// such as talk messages and announcements. Returns core.ErrSpotFeedClosed
// once the connection drops.
func (f *ClusterFeed) Next(ctx context.Context) (*Spot, error) {
	for {
		if deadline, ok := ctx.Deadline(); ok {
			f.conn.SetReadDeadline(deadline)
		}
		if !f.scanner.Scan() {
			if err := f.scanner.Err(); err != nil {
				return nil, fmt.Errorf("%w: %v", core.ErrSpotFeedClosed, err)
			}
			return nil, core.ErrSpotFeedClosed
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if spot, ok := ParseClusterLine(f.scanner.Text()); ok {
			return spot, nil
		}
	}
}

// Close shuts the connection down.
func (f *ClusterFeed) Close() error {
	return f.conn.Close()
}

// ParseClusterLine parses one "DX de ..." spot line. The second result
// is false for anything that is not a spot.
func ParseClusterLine(line string) (*Spot, bool) {
	m := clusterLine.FindStringSubmatch(strings.TrimRight(line, "\r\n \a"))
	if m == nil {
		return nil, false
	}

	khz, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return nil, false
	}

	comment := strings.TrimSpace(m[4])
	return &Spot{
		Callsign:  strings.ToUpper(m[3]),
		Frequency: khz / 1000.0,
		Mode:      modeFromComment(comment),
		Spotter:   strings.ToUpper(m[1]),
		Time:      clusterTime(m[5]),
		Info:      comment,
		Source:    "cluster",
	}, true
}

// modeFromComment scans the comment for a recognizable mode token.
func modeFromComment(comment string) string {
	upper := strings.ToUpper(comment)
	for _, tok := range modeTokens {
		for _, word := range strings.Fields(upper) {
			if word == tok {
				return tok
			}
		}
	}
	return ""
}

// clusterTime anchors the spot's HHMM stamp to today's UTC date.
func clusterTime(hhmm string) time.Time {
	now := time.Now().UTC()
	if len(hhmm) != 4 {
		return now
	}
	hour, err1 := strconv.Atoi(hhmm[:2])
	min, err2 := strconv.Atoi(hhmm[2:])
	if err1 != nil || err2 != nil || hour > 23 || min > 59 {
		return now
	}
	t := time.Date(now.Year(), now.Month(), now.Day(), hour, min, 0, 0, time.UTC)
	if t.After(now) {
		t = t.AddDate(0, 0, -1)
	}
	return t
}
