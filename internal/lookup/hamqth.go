package lookup

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/termlog/termlog/internal/core"
)

// hamqthAPIURL is the HamQTH XML endpoint, a free lookup service.
// https://www.hamqth.com/developers.php
const hamqthAPIURL = "https://www.hamqth.com/xml.php"

// HamQTHClient talks to the HamQTH XML API.
type HamQTHClient struct {
	baseURL    string
	username   string
	password   string
	sessionID  string
	httpClient *http.Client
}

// NewHamQTHClient creates a HamQTH lookup client.
func NewHamQTHClient(username, password string) *HamQTHClient {
	return &HamQTHClient{
		baseURL:  hamqthAPIURL,
		username: username,
		password: password,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// hamqthResponse mirrors the HamQTH XML envelope.
type hamqthResponse struct {
	XMLName xml.Name `xml:"HamQTH"`
	Session struct {
		SessionID string `xml:"session_id"`
		Error     string `xml:"error"`
	} `xml:"session"`
	Search struct {
		Callsign  string `xml:"callsign"`
		Nick      string `xml:"nick"`
		AdrName   string `xml:"adr_name"`
		AdrStreet string `xml:"adr_street1"`
		AdrCity   string `xml:"adr_city"`
		USState   string `xml:"us_state"`
		Country   string `xml:"country"`
		Grid      string `xml:"grid"`
		Latitude  string `xml:"latitude"`
		Longitude string `xml:"longitude"`
		QSLVia    string `xml:"qsl_via"`
		Email     string `xml:"email"`
	} `xml:"search"`
}

// Authenticate obtains a session ID.
func (c *HamQTHClient) Authenticate(ctx context.Context) error {
	params := url.Values{}
	params.Set("u", c.username)
	params.Set("p", c.password)

	resp, err := c.get(ctx, params)
	if err != nil {
		return err
	}

	if resp.Session.SessionID != "" {
		c.sessionID = resp.Session.SessionID
		return nil
	}
	if resp.Session.Error != "" {
		return fmt.Errorf("%w: hamqth: %s", core.ErrLookupAuth, resp.Session.Error)
	}
	return fmt.Errorf("%w: hamqth returned no session id", core.ErrLookupAuth)
}

// Lookup resolves a callsign, re-authenticating once on session expiry.
func (c *HamQTHClient) Lookup(ctx context.Context, callsign string) (*core.LookupResult, error) {
	return c.lookup(ctx, callsign, true)
}

func (c *HamQTHClient) lookup(ctx context.Context, callsign string, retry bool) (*core.LookupResult, error) {
	if c.sessionID == "" {
		if err := c.Authenticate(ctx); err != nil {
			return nil, err
		}
	}

	params := url.Values{}
	params.Set("id", c.sessionID)
	params.Set("callsign", strings.ToUpper(callsign))
	params.Set("prg", "TermLog")

	resp, err := c.get(ctx, params)
	if err != nil {
		return nil, err
	}

	if errText := resp.Session.Error; errText != "" {
		switch {
		case strings.Contains(errText, "Session does not exist"):
			c.sessionID = ""
			if retry {
				return c.lookup(ctx, callsign, false)
			}
			return nil, fmt.Errorf("%w: hamqth: %s", core.ErrLookupAuth, errText)
		case strings.Contains(errText, "Callsign not found"):
			return nil, fmt.Errorf("%w: %s", core.ErrLookupNotFound, callsign)
		default:
			return nil, fmt.Errorf("hamqth error: %s", errText)
		}
	}

	search := resp.Search
	if search.Callsign == "" {
		return nil, fmt.Errorf("%w: %s", core.ErrLookupNotFound, callsign)
	}

	// Prefer the nickname over the formal address name
	name := search.Nick
	if name == "" {
		name = search.AdrName
	}

	return &core.LookupResult{
		Callsign:   strings.ToUpper(search.Callsign),
		Name:       name,
		Address:    search.AdrStreet,
		City:       search.AdrCity,
		State:      search.USState,
		Country:    search.Country,
		GridSquare: search.Grid,
		Latitude:   parseFloat(search.Latitude),
		Longitude:  parseFloat(search.Longitude),
		QSLVia:     search.QSLVia,
		Email:      search.Email,
	}, nil
}

func (c *HamQTHClient) get(ctx context.Context, params url.Values) (*hamqthResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("hamqth request: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("hamqth returned status %d", httpResp.StatusCode)
	}

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("hamqth read body: %w", err)
	}

	var resp hamqthResponse
	if err := xml.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrLookupBadReply, err)
	}
	return &resp, nil
}
