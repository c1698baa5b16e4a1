package prompt

import "time"

const DefaultCategory = "general"

// Prompt is a sellable catalog entry. Price is in minor currency units.
type Prompt struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Price        int64     `json:"price"`
	PromptText   string    `json:"prompt_text,omitempty"`
	Category     string    `json:"category"`
	ThumbnailURL *string   `json:"thumbnail_url"`
	ImageURLs    []string  `json:"image_urls"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Public returns a copy without the protected prompt body.
func (p Prompt) Public() Prompt {
	p.PromptText = ""
	return p
}

// Summary is the prompt subset embedded in cart and purchase listings.
type Summary struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	Price        int64   `json:"price"`
	Category     string  `json:"category"`
	ThumbnailURL *string `json:"thumbnail_url"`
}

func (p Prompt) Summary() Summary {
	return Summary{
		ID:           p.ID,
		Title:        p.Title,
		Description:  p.Description,
		Price:        p.Price,
		Category:     p.Category,
		ThumbnailURL: p.ThumbnailURL,
	}
}

// HTTPError represents a standard error in JSON.
// swagger:model
type HTTPError struct {
	Success bool `json:"success" example:"false"`
	Error   struct {
		Code    string `json:"code" example:"NOT_FOUND"`
		Message string `json:"message" example:"prompt not found"`
	} `json:"error"`
}

// ListResponse represents the paginated response of prompts.
// swagger:model
type ListResponse struct {
	Q        string   `json:"q,omitempty"`
	Category string   `json:"category,omitempty"`
	Limit    int      `json:"limit"`
	Offset   int      `json:"offset"`
	Items    []Prompt `json:"items"`
}

// CreatePromptRequest payload of creation.
// swagger:model CreatePromptRequest
type CreatePromptRequest struct {
	Title        string   `json:"title"         example:"Cinematic portrait pack"`
	Description  string   `json:"description"   example:"12 prompts for moody portrait lighting"`
	Price        *int64   `json:"price"         example:"4900"`
	PromptText   string   `json:"prompt_text"   example:"A cinematic portrait of..."`
	Category     string   `json:"category"      example:"image"`
	ThumbnailURL *string  `json:"thumbnail_url" example:"https://cdn.example.com/p/1.png"`
	ImageURLs    []string `json:"image_urls"`
}

// UpdatePromptRequest payload of partial update. Omitted fields are left unchanged.
// swagger:model UpdatePromptRequest
type UpdatePromptRequest struct {
	Title        *string   `json:"title"`
	Description  *string   `json:"description"`
	Price        *int64    `json:"price"`
	PromptText   *string   `json:"prompt_text"`
	Category     *string   `json:"category"`
	ThumbnailURL *string   `json:"thumbnail_url"`
	ImageURLs    *[]string `json:"image_urls"`
	IsActive     *bool     `json:"is_active"`
}

// Empty reports whether the request changes nothing.
func (r UpdatePromptRequest) Empty() bool {
	return r.Title == nil && r.Description == nil && r.Price == nil && r.PromptText == nil &&
		r.Category == nil && r.ThumbnailURL == nil && r.ImageURLs == nil && r.IsActive == nil
}

// Apply copies the provided fields onto p.
func (r UpdatePromptRequest) Apply(p *Prompt) {
	if r.Title != nil {
		p.Title = *r.Title
	}
	if r.Description != nil {
		p.Description = *r.Description
	}
	if r.Price != nil {
		p.Price = *r.Price
	}
	if r.PromptText != nil {
		p.PromptText = *r.PromptText
	}
	if r.Category != nil {
		p.Category = *r.Category
	}
	if r.ThumbnailURL != nil {
		p.ThumbnailURL = r.ThumbnailURL
	}
	if r.ImageURLs != nil {
		p.ImageURLs = append([]string{}, (*r.ImageURLs)...)
	}
	if r.IsActive != nil {
		p.IsActive = *r.IsActive
	}
}
