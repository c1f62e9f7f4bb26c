// Command smoke drives a running server through the main portfolio flow and
// exits non-zero on the first unexpected response.
package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

type uploadResult struct {
	Successful int      `json:"successful"`
	Failed     int      `json:"failed"`
	Errors     []string `json:"errors"`
}

type holding struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

var log = logrus.New()

func main() {
	baseURL := os.Getenv("SMOKE_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	// Writes are not retried; a timed out POST may already be stored.
	reads := newClient(baseURL, 3)
	writes := newClient(baseURL, 0)

	check(reads.R().Get("/health"))
	check(reads.R().Get("/api/market-data"))
	check(reads.R().Get("/api/market-data/RELIANCE"))
	check(reads.R().SetQueryParam("q", "tata").Get("/api/stocks/search"))
	check(reads.R().SetQueryParam("category", "indian").Get("/api/news"))

	var created holding
	expect(http.StatusCreated)(writes.R().
		SetBody(map[string]string{
			"name":         "Smoke Test Holding",
			"units":        "10",
			"buyingPrice":  "100",
			"purchaseDate": time.Now().Format("2006-01-02"),
			"type":         "Stock",
		}).
		SetResult(&created).
		Post("/api/portfolio"))
	log.Infof("created holding %d", created.ID)

	var upload uploadResult
	check(writes.R().
		SetBody(map[string]any{"csvData": []map[string]string{
			{"name": "Smoke SIP", "units": "5", "buyingPrice": "1000", "purchaseDate": "2023-01-01", "type": "SIP"},
			{"name": "Smoke Broken", "units": "-5", "buyingPrice": "1000", "purchaseDate": "2023-01-01", "type": "SIP"},
		}}).
		SetResult(&upload).
		Post("/api/portfolio/upload-csv"))
	if upload.Successful != 1 || upload.Failed != 1 {
		log.Fatalf("upload: want 1 stored and 1 failed, got %+v", upload)
	}

	check(reads.R().Get("/api/portfolio/analysis"))
	check(reads.R().Get("/api/portfolio/allocation"))
	check(reads.R().Get("/api/portfolio/performance"))
	check(reads.R().SetQueryParam("format", "xlsx").Get("/api/portfolio/export"))

	id := fmt.Sprint(created.ID)
	check(writes.R().SetBody(map[string]string{"units": "20"}).Put("/api/portfolio/" + id))
	expect(http.StatusNoContent)(writes.R().Delete("/api/portfolio/" + id))
	expect(http.StatusNotFound)(writes.R().Delete("/api/portfolio/" + id))

	log.Info("ALL CHECKS PASSED")
}

func newClient(baseURL string, retries int) *resty.Client {
	return resty.New().
		SetBaseURL(baseURL).
		SetTimeout(10 * time.Second).
		SetRetryCount(retries).
		SetRetryWaitTime(time.Second)
}

func check(resp *resty.Response, err error) {
	expect(http.StatusOK)(resp, err)
}

func expect(status int) func(*resty.Response, error) {
	return func(resp *resty.Response, err error) {
		if err != nil {
			log.Fatalf("request failed: %v", err)
		}
		req := resp.Request
		if resp.StatusCode() != status {
			log.Fatalf("%s %s: expected status %d, got %d. Body: %s", req.Method, req.URL, status, resp.StatusCode(), resp.String())
		}
		log.Infof("%s %s -> %d", req.Method, req.URL, resp.StatusCode())
	}
}
