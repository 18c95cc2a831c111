package model

import (
	"time"

	"github.com/google/uuid"
)

// Loja é uma unidade da rede. Cada loja é uma partição independente do
// caixa: sessões, movimentos e saldo são sempre escopados por loja.
type Loja struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nome   string    `gorm:"not null"`
	Codigo string    `gorm:"uniqueIndex;not null"`
	// Timezone IANA usada para derivar o dia de negócio; vazio = padrão da config
	Timezone  string `gorm:"type:varchar(64)"`
	Ativa     bool   `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
