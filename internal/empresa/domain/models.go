package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Empresa is the local mirror of a merchant registered with the fiscal provider.
type Empresa struct {
	ID                 snowflake.ID `gorm:"primaryKey" json:"id"`
	CpfCnpj            string       `gorm:"column:cpf_cnpj;size:14;not null;uniqueIndex" json:"cpf_cnpj"`
	NomeRazaoSocial    string       `gorm:"size:120;not null" json:"nome_razao_social"`
	NomeFantasia       string       `gorm:"size:120" json:"nome_fantasia,omitempty"`
	InscricaoEstadual  string       `gorm:"size:20" json:"inscricao_estadual,omitempty"`
	InscricaoMunicipal string       `gorm:"size:20" json:"inscricao_municipal,omitempty"`
	Email              string       `gorm:"size:120" json:"email,omitempty"`
	Telefone           string       `gorm:"size:15" json:"telefone,omitempty"`
	Ativo              bool         `gorm:"not null;default:true" json:"ativo"`
	Endereco           *Endereco    `gorm:"foreignKey:EmpresaID;constraint:OnDelete:CASCADE" json:"endereco,omitempty"`
	CreatedAt          time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt          time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Empresa) TableName() string { return "empresas" }

// Endereco is owned by exactly one Empresa and has no independent lifecycle.
type Endereco struct {
	ID              snowflake.ID `gorm:"primaryKey" json:"id"`
	EmpresaID       snowflake.ID `gorm:"not null;index" json:"-"`
	Cep             string       `gorm:"size:9" json:"cep"`
	Logradouro      string       `gorm:"size:200;not null" json:"logradouro"`
	Numero          string       `gorm:"size:10;not null" json:"numero"`
	Complemento     string       `gorm:"size:60" json:"complemento,omitempty"`
	Bairro          string       `gorm:"size:60;not null" json:"bairro"`
	CodigoMunicipio string       `gorm:"size:7;not null" json:"codigo_municipio"`
	Municipio       string       `gorm:"size:60;not null" json:"municipio"`
	UF              string       `gorm:"size:2;not null" json:"uf"`
}

func (Endereco) TableName() string { return "enderecos" }
