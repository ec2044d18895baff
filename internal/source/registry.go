package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Daun92/travel-blog-sub000/internal/model"
	"github.com/Daun92/travel-blog-sub000/internal/util"
)

// TourRegistry looks claims up against the Korea Tourism Organization open
// API (KorService). It answers venue, location, hours, event-period and
// contact claims; prices, facilities and transport details are not reliably
// present in the registry and fall through to grounded search.
type TourRegistry struct {
	baseURL    string
	serviceKey string
	httpClient *http.Client
}

// NewTourRegistry creates a registry client. A missing service key is a
// configuration error and is rejected before any claim is processed.
func NewTourRegistry(cfg model.RegistryConfig, httpCfg model.HTTPConfig) (*TourRegistry, error) {
	if cfg.ServiceKey == "" {
		return nil, fmt.Errorf("registry service key is required (set FACTGATE_REGISTRY_SERVICE_KEY)")
	}

	timeout := time.Duration(cfg.TimeoutSec) * time.Second
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	return &TourRegistry{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		serviceKey: cfg.ServiceKey,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: util.NewProxyFunc(httpCfg.HTTPProxy, httpCfg.HTTPSProxy, httpCfg.NoProxy),
			},
		},
	}, nil
}

// Supports reports whether the registry holds records for this claim type
func (r *TourRegistry) Supports(claimType model.ClaimType) bool {
	switch claimType {
	case model.ClaimTypeVenueExists, model.ClaimTypeLocation, model.ClaimTypeHours,
		model.ClaimTypeEventPeriod, model.ClaimTypeContact:
		return true
	default:
		return false
	}
}

// KorService response envelope. The header carries API-level error codes
// even on HTTP 200.
type tourResponse struct {
	Response struct {
		Header struct {
			ResultCode string `json:"resultCode"`
			ResultMsg  string `json:"resultMsg"`
		} `json:"header"`
		Body struct {
			TotalCount int `json:"totalCount"`
			Items      struct {
				Item []tourItem `json:"item"`
			} `json:"items"`
		} `json:"body"`
	} `json:"response"`
}

type tourItem struct {
	Title     string `json:"title"`
	Addr1     string `json:"addr1"`
	Tel       string `json:"tel"`
	ContentID string `json:"contentid"`
	EventStart string `json:"eventstartdate"`
	EventEnd   string `json:"eventenddate"`
}

// Lookup searches the registry for the claim value. Absence of a matching
// record yields Found=false, never an error.
func (r *TourRegistry) Lookup(ctx context.Context, claimType model.ClaimType, value string) (*RegistryResult, error) {
	const op = "registry lookup"

	endpoint := "/searchKeyword1"
	if claimType == model.ClaimTypeEventPeriod {
		endpoint = "/searchFestival1"
	}

	params := url.Values{}
	params.Set("serviceKey", r.serviceKey)
	params.Set("MobileOS", "ETC")
	params.Set("MobileApp", "factgate")
	params.Set("_type", "json")
	params.Set("numOfRows", "5")
	if endpoint == "/searchKeyword1" {
		params.Set("keyword", value)
	} else {
		params.Set("eventStartDate", "20000101")
	}

	reqURL := r.baseURL + endpoint + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, NewTerminal(op, fmt.Errorf("create request: %w", err))
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		// Network failures and timeouts are transient
		return nil, NewTransient(op, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, NewTransient(op, fmt.Errorf("read response: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
		if ClassifyStatus(resp.StatusCode) == ClassTerminal {
			return nil, NewTerminal(op, err)
		}
		return nil, NewTransient(op, err)
	}

	var parsed tourResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		// The API returns XML error envelopes for key problems regardless
		// of the _type parameter
		return nil, classifyRawEnvelope(op, string(body))
	}

	if code := parsed.Response.Header.ResultCode; code != "" && code != "0000" {
		return nil, classifyResultCode(op, code, parsed.Response.Header.ResultMsg)
	}

	item, ok := matchItem(parsed.Response.Body.Items.Item, value)
	if !ok {
		return &RegistryResult{Found: false, CheckedAt: time.Now().UTC()}, nil
	}

	data := map[string]string{"title": item.Title}
	if item.Addr1 != "" {
		data["address"] = item.Addr1
	}
	if item.Tel != "" {
		data["tel"] = item.Tel
	}
	if item.EventStart != "" {
		data["event_start"] = item.EventStart
		data["event_end"] = item.EventEnd
	}

	return &RegistryResult{
		Found:     true,
		Data:      data,
		SourceURL: fmt.Sprintf("https://korean.visitkorea.or.kr/detail/ms_detail.do?cotid=%s", item.ContentID),
		CheckedAt: time.Now().UTC(),
	}, nil
}

// matchItem picks the first item whose title or address overlaps the claim
// value. Keyword search is fuzzy; an unrelated hit must not count as found.
func matchItem(items []tourItem, value string) (tourItem, bool) {
	needle := strings.ToLower(strings.TrimSpace(value))
	for _, item := range items {
		title := strings.ToLower(item.Title)
		if strings.Contains(title, needle) || strings.Contains(needle, title) ||
			strings.Contains(strings.ToLower(item.Addr1), needle) {
			return item, true
		}
	}
	if len(items) > 0 && needle == "" {
		return items[0], true
	}
	return tourItem{}, false
}

// classifyResultCode maps KorService API error codes to error classes.
// Code 22 is daily quota exhaustion; 30/31/32 are service-key problems.
// All of those fail identically on retry, so they are terminal.
func classifyResultCode(op, code, msg string) error {
	err := fmt.Errorf("api error %s: %s", code, msg)
	switch code {
	case "22", "30", "31", "32":
		return NewTerminal(op, err)
	default:
		return NewTransient(op, err)
	}
}

func classifyRawEnvelope(op, body string) error {
	err := fmt.Errorf("unparseable response: %s", strings.TrimSpace(body))
	if classifyMessage(body) == ClassTerminal ||
		strings.Contains(body, "SERVICE_KEY_IS_NOT_REGISTERED") ||
		strings.Contains(body, "LIMITED_NUMBER_OF_SERVICE_REQUESTS_EXCEEDS") {
		return NewTerminal(op, err)
	}
	return NewTransient(op, err)
}
