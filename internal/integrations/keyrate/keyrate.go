// Package keyrate fetches the central bank's key rate, used as the reference
// annual rate for loan simulations when the caller does not supply one. The
// endpoint is deployment configuration; when none is set the source reports
// itself unavailable instead of guessing.
package keyrate

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/rferreira/loan-ledger/internal/config"
	"github.com/sirupsen/logrus"
)

// ErrNotConfigured signals that no key rate endpoint was configured.
var ErrNotConfigured = errors.New("key rate endpoint is not configured")

const requestWindowDays = 30

// Client handles integration with the central bank rate service
type Client struct {
	url    string
	margin float64
	client *http.Client
	log    *logrus.Logger
}

// NewClient initializes a new key rate client
func NewClient(cfg *config.Config, log *logrus.Logger) *Client {
	return &Client{
		url:    cfg.KeyRateURL,
		margin: cfg.RateMargin,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: log,
	}
}

// envelope builds the SOAP body asking for the key rate over the last month.
func (c *Client) envelope() string {
	to := time.Now()
	from := to.AddDate(0, 0, -requestWindowDays)
	return fmt.Sprintf(`<?xml version="1.0" encoding="utf-8"?>
		<soap12:Envelope xmlns:soap12="http://www.w3.org/2003/05/soap-envelope">
			<soap12:Body>
				<KeyRate xmlns="http://web.cbr.ru/">
					<fromDate>%s</fromDate>
					<ToDate>%s</ToDate>
				</KeyRate>
			</soap12:Body>
		</soap12:Envelope>`, from.Format("2006-01-02"), to.Format("2006-01-02"))
}

// fetch posts the envelope and returns the raw response body.
func (c *Client) fetch() ([]byte, error) {
	req, err := http.NewRequest(http.MethodPost, c.url, strings.NewReader(c.envelope()))
	if err != nil {
		return nil, fmt.Errorf("failed to build key rate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/soap+xml; charset=utf-8")
	req.Header.Set("SOAPAction", "http://web.cbr.ru/KeyRate")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("key rate request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("key rate service returned status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// parse extracts the most recent key rate from the diffgram response.
func (c *Client) parse(body []byte) (float64, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(body); err != nil {
		return 0, fmt.Errorf("failed to parse key rate response: %w", err)
	}

	entries := doc.FindElements("//diffgram/KeyRate/KR")
	if len(entries) == 0 {
		return 0, errors.New("key rate response carries no entries")
	}
	rateElement := entries[0].FindElement("./Rate")
	if rateElement == nil {
		return 0, errors.New("key rate entry carries no Rate element")
	}

	rate, err := strconv.ParseFloat(strings.TrimSpace(rateElement.Text()), 64)
	if err != nil {
		return 0, fmt.Errorf("malformed key rate %q: %w", rateElement.Text(), err)
	}
	return rate, nil
}

// AnnualRate retrieves the current key rate plus the configured lending margin,
// returned as a fraction suitable for the amortization calculator.
func (c *Client) AnnualRate() (float64, error) {
	if c.url == "" {
		return 0, ErrNotConfigured
	}

	body, err := c.fetch()
	if err != nil {
		return 0, err
	}
	rate, err := c.parse(body)
	if err != nil {
		return 0, err
	}

	total := rate + c.margin
	c.log.Infof("Key rate %.2f%% plus %.2f%% margin -> annual rate %.2f%%", rate, c.margin, total)
	return total / 100, nil
}
