package model

import "time"

// CrawlRecord is one observed URL during a site crawl, written as one line
// of work/raw/crawl.jsonl.
type CrawlRecord struct {
	URL           string    `json:"url"`
	NormalizedURL string    `json:"normalized_url"`
	Depth         int       `json:"depth"`
	Status        int       `json:"status"`
	RetrievedAt   time.Time `json:"retrieved_at"`
	RawHTMLPath   string    `json:"raw_html_path,omitempty"`
}

// ExtractedFrontMatter is the YAML front matter prefixed to an extracted
// page's Markdown body.
type ExtractedFrontMatter struct {
	ID          string    `yaml:"id"`
	URL         string    `yaml:"url"`
	RetrievedAt time.Time `yaml:"retrieved_at"`
	RawHTMLPath string    `yaml:"raw_html_path,omitempty"`
	Title       string    `yaml:"title"`
	TrustTier   string    `yaml:"trust_tier,omitempty"`
}

// ManifestRecord indexes one extracted page, sorted by Path into
// work/manifest.jsonl.
type ManifestRecord struct {
	ID          string `json:"id"`
	URL         string `json:"url"`
	Title       string `json:"title"`
	Path        string `json:"path"`
	ExtractedMD string `json:"extracted_md"`
	TrustTier   string `json:"trust_tier,omitempty"`
}
