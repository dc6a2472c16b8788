package models

// StatusPending is the status assigned to newly created lists and items.
const StatusPending = "pending"

// List represents a to-do list owned by a single account.
type List struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Status  string `json:"status"`
	OwnerID string `json:"-"`
	Items   []Item `json:"items"`
}

// Item represents a single entry inside a list. Ownership is derived
// through the parent list, never stored on the item itself.
type Item struct {
	ID          string `json:"id"`
	ListID      string `json:"list_id"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

// AddListRequest is the JSON body for POST /add-list.
type AddListRequest struct {
	Title string `json:"title"`
}

// EditListRequest is the JSON body for PUT /edit-list/{id}.
type EditListRequest struct {
	Title  string `json:"title"`
	Status string `json:"status"`
}

// AddItemRequest is the JSON body for POST /add-items.
type AddItemRequest struct {
	ListID      string `json:"list_id"`
	Description string `json:"description"`
}

// EditItemRequest is the JSON body for PUT /edit-item/{id}.
type EditItemRequest struct {
	Description string `json:"description"`
	Status      string `json:"status"`
}
