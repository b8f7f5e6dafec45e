package models

// FormData is the structured startup form. All thirteen fields are free text
// and required; it is immutable once handed to the builder. JSON tags keep the
// camelCase names of the interchange format.
type FormData struct {
	CompanyName              string `json:"companyName"`
	StartupIdea              string `json:"startupIdea"`
	ProblemStatement         string `json:"problemStatement"`
	Solution                 string `json:"solution"`
	MarketDescription        string `json:"marketDescription"`
	MarketSize               string `json:"marketSize"`
	TargetCustomer           string `json:"targetCustomer"`
	Competitors              string `json:"competitors"`
	UniqueSellingProposition string `json:"uniqueSellingProposition"`
	RevenueModel             string `json:"revenueModel"`
	MarketingStrategy        string `json:"marketingStrategy"`
	TeamMembers              string `json:"teamMembers"`
	FundingNeeds             string `json:"fundingNeeds"`
}

// Slide is one page-equivalent unit of content. Bullet order is significant.
// ImageURL is always a plain string after the builder runs; empty means the
// image was skipped or its generation failed.
type Slide struct {
	Title       string   `json:"title"`
	Content     []string `json:"content"`
	ImagePrompt string   `json:"imagePrompt"`
	ImageURL    string   `json:"imageUrl"`
}

// PitchDeck is a named, timestamped, ordered sequence of slides plus the
// originating form data. An empty ID means the deck exists only in memory;
// a non-empty ID is store-assigned, unique and immutable.
//
// CreatedAt is kept as the ISO-8601 string set at construction so a deck
// round-trips verbatim through JSON interchange.
type PitchDeck struct {
	ID          string   `json:"id"`
	CompanyName string   `json:"companyName"`
	CreatedAt   string   `json:"createdAt"`
	Slides      []Slide  `json:"slides"`
	FormData    FormData `json:"formData"`
}

// GeneratedSlide is one slide as returned by the generation collaborator.
// ImageURL may be absent in the wire shape; decoding leaves it empty.
type GeneratedSlide struct {
	Title       string   `json:"title"`
	Content     []string `json:"content"`
	ImagePrompt string   `json:"imagePrompt"`
	ImageURL    string   `json:"imageUrl,omitempty"`
}

// GenerationResult is the opaque output of the generation collaborator.
// Slides == nil means the collaborator omitted the sequence entirely, which
// is distinct from an empty sequence.
type GenerationResult struct {
	Slides []GeneratedSlide `json:"slides"`
}
