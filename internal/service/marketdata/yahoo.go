package marketdata

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"time"

	"CoinSight/internal/domain/models"
	xhttp "CoinSight/pkg/http"
	"CoinSight/pkg/util"
)

// YahooClient fetches daily closing prices from the Yahoo Finance chart API.
type YahooClient struct {
	baseURL   string
	userAgent string
	client    *xhttp.Client
}

// NewYahooClient creates a client against baseURL (the /v8/finance/chart root).
func NewYahooClient(baseURL, userAgent string, timeout time.Duration) *YahooClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if userAgent == "" {
		userAgent = "Mozilla/5.0"
	}
	return &YahooClient{
		baseURL:   baseURL,
		userAgent: userAgent,
		client:    xhttp.NewClient(xhttp.WithTimeout(timeout)),
	}
}

// chartResponse is the response structure from the Yahoo chart API. Close
// values are decoded as pointers because the API reports null bars for
// holidays.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// FetchDailyCloses requests closes for the trailing window of the given
// number of days, oldest first. Null bars are skipped, so the result may be
// shorter than the window.
func (c *YahooClient) FetchDailyCloses(ctx context.Context, symbol string, days int) (models.PriceSeries, error) {
	from, to := util.TrailingWindow(time.Now(), days)

	u := fmt.Sprintf("%s/%s", c.baseURL, url.PathEscape(symbol))
	var chart chartResponse
	err := c.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    u,
		Headers: map[string]string{
			"User-Agent": c.userAgent,
		},
		QueryParams: map[string][]string{
			"interval": {"1d"},
			"period1":  {strconv.FormatInt(from.Unix(), 10)},
			"period2":  {strconv.FormatInt(to.Unix(), 10)},
		},
	}, &chart)
	if err != nil {
		return nil, xhttp.BadRequestErrorf("failed to fetch market data for %s", symbol).WithCode("ERR_NO_DATA").WithError(err)
	}

	if chart.Chart.Error != nil {
		return nil, xhttp.BadRequestErrorf("market data error for %s: %s", symbol, chart.Chart.Error.Description).WithCode("ERR_NO_DATA")
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 {
		return nil, xhttp.BadRequestErrorf("no data found for %s", symbol).WithCode("ERR_NO_DATA")
	}

	result := chart.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, xhttp.BadRequestErrorf("no data found for %s", symbol).WithCode("ERR_NO_DATA")
	}
	closes := result.Indicators.Quote[0].Close

	series := make(models.PriceSeries, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(closes) || closes[i] == nil {
			continue // null bars (holidays etc.)
		}
		series = append(series, models.Close{
			Time:  time.Unix(ts, 0),
			Price: *closes[i],
		})
	}

	if len(series) == 0 {
		return nil, xhttp.BadRequestErrorf("no data found for %s", symbol).WithCode("ERR_NO_DATA")
	}

	sort.Slice(series, func(i, j int) bool { return series[i].Time.Before(series[j].Time) })

	// Trim to the requested window
	if len(series) > days {
		series = series[len(series)-days:]
	}
	return series, nil
}
