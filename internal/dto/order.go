package dto

// OrderSuggestion is a recommended reorder quantity for one inventory item.
type OrderSuggestion struct {
	ItemID        string `json:"item_id"`
	Name          string `json:"name"`
	Quantity      int    `json:"quantity"`
	MinQuantity   int    `json:"min_quantity"`
	OrderQuantity int    `json:"order_quantity"`
	Reason        string `json:"reason,omitempty"`
	InstacartLink string `json:"instacart_link,omitempty"`
}

// OrderSuggestionsResponse lists reorder advice for low and out items.
// Source is "ai" when the advisor produced the quantities, "heuristic" when
// the fixed buffer rule did.
type OrderSuggestionsResponse struct {
	Source      string            `json:"source"`
	Suggestions []OrderSuggestion `json:"suggestions"`
}
