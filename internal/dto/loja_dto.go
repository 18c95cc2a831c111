package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CriarLojaRequest struct {
	Nome     string `json:"nome"     validate:"required,min=2,max=100"`
	Codigo   string `json:"codigo"   validate:"required,min=2,max=20"`
	Timezone string `json:"timezone" validate:"omitempty,max=64"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type LojaResponse struct {
	ID       string `json:"id"`
	Nome     string `json:"nome"`
	Codigo   string `json:"codigo"`
	Timezone string `json:"timezone"`
	Ativa    bool   `json:"ativa"`
}
