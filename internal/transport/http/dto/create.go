package dto

type CreateDraftRequest struct {
	Prompt      string `json:"prompt" validate:"max=2000"`
	AspectRatio string `json:"aspect_ratio" validate:"omitempty,oneof=square portrait landscape tall 1:1 3:4 16:9 9:16"`
}

// GenerateRequest тело запроса генерации. Пустые поля означают
// использовать ранее сохранённый черновик.
type GenerateRequest struct {
	Prompt      *string `json:"prompt,omitempty" validate:"omitempty,max=2000"`
	AspectRatio *string `json:"aspect_ratio,omitempty" validate:"omitempty,oneof=square portrait landscape tall 1:1 3:4 16:9 9:16"`
}

// CreateFlowResponse состояние формы создания пина
type CreateFlowResponse struct {
	FlowID      string `json:"flow_id"`
	State       string `json:"state"`
	LastOutcome string `json:"last_outcome,omitempty"`
	Prompt      string `json:"prompt"`
	AspectRatio string `json:"aspect_ratio"`
	CanSubmit   bool   `json:"can_submit"`
	Error       string `json:"error,omitempty"`
	LastPinID   string `json:"last_pin_id,omitempty"`
}
