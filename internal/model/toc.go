package model

// Toc is the synthesized table of contents, persisted as work/toc.yaml.
type Toc struct {
	BookTitle string    `yaml:"book_title"`
	Parts     []TocPart `yaml:"parts"`
}

// TocPart groups chapters under a titled part.
type TocPart struct {
	Title    string       `yaml:"title"`
	Chapters []TocChapter `yaml:"chapters"`
}

// TocChapter is one rendered chapter. Intent and ReaderGains are optional
// editorial supplements populated only by the command/llm engines; they
// participate in no validation rule and may be empty.
type TocChapter struct {
	ID          string   `yaml:"id"`
	Title       string   `yaml:"title"`
	Sources     []string `yaml:"sources"`
	Intent      string   `yaml:"intent,omitempty"`
	ReaderGains []string `yaml:"reader_gains,omitempty"`
}

// TocPlan is the unvalidated, un-stamped output of a TOC engine, before
// chapter ids are assigned and the plan is checked against the manifest.
type TocPlan struct {
	BookTitle string           `json:"book_title,omitempty"`
	Chapters  []TocPlanChapter `json:"chapters"`
}

// TocPlanChapter is one chapter proposed by a TOC engine.
type TocPlanChapter struct {
	Title       string   `json:"title"`
	Sources     []string `json:"sources"`
	Intent      string   `json:"intent,omitempty"`
	ReaderGains []string `json:"reader_gains,omitempty"`
}
