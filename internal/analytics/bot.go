// Package analytics classifies the traffic that produces click events.
package analytics

import (
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/mssola/useragent"
)

// Matched case-insensitively against the User-Agent.
var botSignatures = []string{
	"bot",
	"spider",
	"crawl",
	"slurp",

	// link unfurlers
	"facebookexternalhit",
	"whatsapp",
	"preview",
	"embedly",

	"chrome-lighthouse",
	"google-read-aloud",
	"mediapartners-google",

	// HTTP clients and feed readers
	"go-http-client/",
	"curl/",
	"wget/",
	"python-requests/",
	"python-urllib/",
	"java/",
	"okhttp/",
	"axios/",
	"node-fetch",
	"feedfetcher",
	"feedly",

	"headlesschrome/",
	"phantomjs",
	"wkhtmltopdf",
	"zgrab/",
	"ahrefs",
	"semrush",
}

// IsBot reports whether rawUA looks like a crawler, unfurler or scripted
// client rather than a reader's browser. An empty User-Agent counts as a bot.
func IsBot(rawUA string) bool {
	if strings.TrimSpace(rawUA) == "" {
		return true
	}
	if useragent.New(rawUA).Bot() {
		return true
	}
	lower := strings.ToLower(rawUA)
	for _, sig := range botSignatures {
		if strings.Contains(lower, sig) {
			return true
		}
	}
	return false
}

// BotFilter memoizes IsBot verdicts per User-Agent string. Only verdicts are
// cached, never catalog or ranking data.
type BotFilter struct {
	verdicts *lru.Cache[string, bool]
}

func NewBotFilter(size int) (*BotFilter, error) {
	c, err := lru.New[string, bool](size)
	if err != nil {
		return nil, err
	}
	return &BotFilter{verdicts: c}, nil
}

func (f *BotFilter) IsBot(rawUA string) bool {
	if v, ok := f.verdicts.Get(rawUA); ok {
		return v
	}
	v := IsBot(rawUA)
	f.verdicts.Add(rawUA, v)
	return v
}

func (f *BotFilter) Len() int {
	return f.verdicts.Len()
}
