package domain

// Result sources
const (
	SourceRecommender = "Recommender"
	SourceCache       = "Cache"
)

// Partition is the split of a candidate list into items matching the query and the rest.
// Both slices are always non-nil and never share a backing array with the input.
type Partition struct {
	Matching []string `json:"matching"`
	Other    []string `json:"other"`
}

// RecommendationRequest asks for recommendations for a single item name
type RecommendationRequest struct {
	ProductName string `json:"product_name" binding:"required"`
}

// PartitionRequest carries caller-supplied candidates to split without contacting the recommendation service
type PartitionRequest struct {
	ProductName string   `json:"product_name"`
	Candidates  []string `json:"candidates"`
}

// RecommendationResult is the rendered outcome of one lookup
type RecommendationResult struct {
	ProductName     string   `json:"productName"`
	Recommendations []string `json:"recommendations"`
	Matching        []string `json:"matching"`
	Other           []string `json:"other"`
	MatchingMessage string   `json:"matchingMessage"`
	OtherMessage    string   `json:"otherMessage"`
	Featured        []string `json:"featured"`
	FeaturedMessage string   `json:"featuredMessage"`
	Source          string   `json:"source"` // "Recommender" or "Cache"
}

// RecommenderRequest is the body sent to the recommendation service
type RecommenderRequest struct {
	ProductName string `json:"product_name"`
}

// RecommenderResponse is the body returned by the recommendation service
type RecommenderResponse struct {
	Recommendations []string `json:"recommendations"`
}

// OrderSummaryRequest lists the items of a completed order
type OrderSummaryRequest struct {
	Items []string `json:"items"`
}

// OrderIntentRequest carries the caller's classification of the user's reply
type OrderIntentRequest struct {
	Confirmed *bool `json:"confirmed" binding:"required"`
}

// MessageResponse wraps a single rendered sentence
type MessageResponse struct {
	Message string `json:"message"`
}
