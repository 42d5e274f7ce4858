package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Produto is a catalog entry referenced by invoice items. Fiscal fields
// (NCM, CFOP) are validated at write time so emission never has to.
type Produto struct {
	ID               snowflake.ID `gorm:"primaryKey" json:"id"`
	Codigo           string       `gorm:"size:60;not null;uniqueIndex" json:"codigo"`
	Descricao        string       `gorm:"size:120;not null" json:"descricao"`
	NCM              string       `gorm:"column:ncm;size:8;not null" json:"ncm"`
	CFOP             string       `gorm:"column:cfop;size:4;not null" json:"cfop"`
	UnidadeComercial string       `gorm:"size:6;not null;default:UN" json:"unidade_comercial"`
	ValorUnitario    float64      `gorm:"not null" json:"valor_unitario"`
	EAN              string       `gorm:"column:ean;size:14" json:"ean,omitempty"`

	// Taxable-unit variants; when empty the commercial values apply.
	EANTributavel           string  `gorm:"column:ean_tributavel;size:14" json:"ean_tributavel,omitempty"`
	UnidadeTributavel       string  `gorm:"size:6" json:"unidade_tributavel,omitempty"`
	ValorUnitarioTributavel float64 `json:"valor_unitario_tributavel,omitempty"`

	Ativo     bool      `gorm:"not null;default:true" json:"ativo"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Produto) TableName() string { return "produtos" }
