package lookup

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/termlog/termlog/internal/core"
)

// qrzAPIURL is the QRZ.com XML interface endpoint. Requires an XML
// subscription; https://www.qrz.com/XML/current_spec.html
const qrzAPIURL = "https://xmldata.qrz.com/xml/current/"

// QRZClient talks to the QRZ.com XML API.
type QRZClient struct {
	baseURL    string
	username   string
	password   string
	sessionKey string
	httpClient *http.Client
}

// NewQRZClient creates a QRZ lookup client.
func NewQRZClient(username, password string) *QRZClient {
	return &QRZClient{
		baseURL:  qrzAPIURL,
		username: username,
		password: password,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// qrzResponse mirrors the QRZDatabase XML envelope.
type qrzResponse struct {
	XMLName xml.Name `xml:"QRZDatabase"`
	Session struct {
		Key   string `xml:"Key"`
		Error string `xml:"Error"`
	} `xml:"Session"`
	Callsign struct {
		Call    string `xml:"call"`
		FName   string `xml:"fname"`
		Name    string `xml:"name"`
		Addr1   string `xml:"addr1"`
		Addr2   string `xml:"addr2"`
		State   string `xml:"state"`
		Country string `xml:"country"`
		Grid    string `xml:"grid"`
		Lat     string `xml:"lat"`
		Lon     string `xml:"lon"`
		QSLMgr  string `xml:"qslmgr"`
		Email   string `xml:"email"`
	} `xml:"Callsign"`
}

// Authenticate obtains a session key.
func (c *QRZClient) Authenticate(ctx context.Context) error {
	params := url.Values{}
	params.Set("username", c.username)
	params.Set("password", c.password)

	resp, err := c.get(ctx, params)
	if err != nil {
		return err
	}

	if resp.Session.Key != "" {
		c.sessionKey = resp.Session.Key
		return nil
	}
	if resp.Session.Error != "" {
		return fmt.Errorf("%w: qrz: %s", core.ErrLookupAuth, resp.Session.Error)
	}
	return fmt.Errorf("%w: qrz returned no session key", core.ErrLookupAuth)
}

// Lookup resolves a callsign, re-authenticating once if the session
// expired underneath us.
func (c *QRZClient) Lookup(ctx context.Context, callsign string) (*core.LookupResult, error) {
	return c.lookup(ctx, callsign, true)
}

func (c *QRZClient) lookup(ctx context.Context, callsign string, retry bool) (*core.LookupResult, error) {
	if c.sessionKey == "" {
		if err := c.Authenticate(ctx); err != nil {
			return nil, err
		}
	}

	params := url.Values{}
	params.Set("s", c.sessionKey)
	params.Set("callsign", strings.ToUpper(callsign))

	resp, err := c.get(ctx, params)
	if err != nil {
		return nil, err
	}

	if errText := resp.Session.Error; errText != "" {
		switch {
		case strings.Contains(errText, "Session Timeout"), strings.Contains(errText, "Invalid session"):
			c.sessionKey = ""
			if retry {
				return c.lookup(ctx, callsign, false)
			}
			return nil, fmt.Errorf("%w: qrz: %s", core.ErrLookupAuth, errText)
		case strings.Contains(errText, "Not found"):
			return nil, fmt.Errorf("%w: %s", core.ErrLookupNotFound, callsign)
		default:
			return nil, fmt.Errorf("qrz error: %s", errText)
		}
	}

	cs := resp.Callsign
	if cs.Call == "" {
		return nil, fmt.Errorf("%w: %s", core.ErrLookupNotFound, callsign)
	}

	return &core.LookupResult{
		Callsign:   cs.Call,
		Name:       joinName(cs.FName, cs.Name),
		Address:    cs.Addr1,
		City:       cs.Addr2,
		State:      cs.State,
		Country:    cs.Country,
		GridSquare: cs.Grid,
		Latitude:   parseFloat(cs.Lat),
		Longitude:  parseFloat(cs.Lon),
		QSLVia:     cs.QSLMgr,
		Email:      cs.Email,
	}, nil
}

func (c *QRZClient) get(ctx context.Context, params url.Values) (*qrzResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("qrz request: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("qrz returned status %d", httpResp.StatusCode)
	}

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("qrz read body: %w", err)
	}

	var resp qrzResponse
	if err := xml.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrLookupBadReply, err)
	}
	return &resp, nil
}

// joinName builds "First Last" from whichever parts are present.
func joinName(first, last string) string {
	first = strings.TrimSpace(first)
	last = strings.TrimSpace(last)
	switch {
	case first != "" && last != "":
		return first + " " + last
	case last != "":
		return last
	default:
		return first
	}
}

func parseFloat(s string) float64 {
	f, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f
}
