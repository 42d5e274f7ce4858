package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// NFCe is the local mirror of a document accepted by the fiscal provider.
// Provider-reported dates are stored as the provider sends them; the raw
// request and response payloads are kept for audit.
type NFCe struct {
	ID            snowflake.ID `gorm:"primaryKey" json:"id"`
	NuvemFiscalID string       `gorm:"size:60;uniqueIndex" json:"nuvem_fiscal_id"`
	EmpresaID     snowflake.ID `gorm:"not null;index" json:"empresa_id"`
	Ambiente      string       `gorm:"size:20;not null;default:producao" json:"ambiente"`
	Status        string       `gorm:"size:20;not null;default:processando;index" json:"status"`
	DataEmissao   string       `gorm:"size:30" json:"data_emissao,omitempty"`
	Serie         int          `json:"serie"`
	Numero        int          `json:"numero"`
	ValorTotal    float64      `gorm:"not null" json:"valor_total"`
	Chave         string       `gorm:"size:44;uniqueIndex" json:"chave"`

	AutorizacaoID              string `gorm:"size:60" json:"autorizacao_id,omitempty"`
	AutorizacaoStatus          string `gorm:"size:20" json:"autorizacao_status,omitempty"`
	AutorizacaoDataEvento      string `gorm:"size:30" json:"autorizacao_data_evento,omitempty"`
	AutorizacaoNumeroProtocolo string `gorm:"size:20" json:"autorizacao_numero_protocolo,omitempty"`
	AutorizacaoCodigoStatus    int    `json:"autorizacao_codigo_status,omitempty"`
	AutorizacaoMotivoStatus    string `gorm:"size:255" json:"autorizacao_motivo_status,omitempty"`

	PayloadEnviado   datatypes.JSON `json:"-"`
	RespostaCompleta datatypes.JSON `json:"-"`

	Itens []ItemNFCe `gorm:"foreignKey:NFCeID;constraint:OnDelete:CASCADE" json:"itens,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (NFCe) TableName() string { return "nfces" }

// ItemNFCe is an issuance-time snapshot of a sold product, not a live
// reference to the catalog. Invoices are immutable once accepted.
type ItemNFCe struct {
	ID            snowflake.ID `gorm:"primaryKey" json:"id"`
	NFCeID        snowflake.ID `gorm:"column:nfce_id;not null;index" json:"-"`
	NItem         int          `gorm:"not null" json:"n_item"`
	Codigo        string       `gorm:"size:60;not null" json:"codigo"`
	Descricao     string       `gorm:"size:120;not null" json:"descricao"`
	NCM           string       `gorm:"column:ncm;size:8;not null" json:"ncm"`
	CFOP          string       `gorm:"column:cfop;size:4;not null" json:"cfop"`
	Unidade       string       `gorm:"size:6;not null" json:"unidade"`
	Quantidade    float64      `gorm:"not null" json:"quantidade"`
	ValorUnitario float64      `gorm:"not null" json:"valor_unitario"`
	ValorTotal    float64      `gorm:"not null" json:"valor_total"`
	ICMSCsosn     string       `gorm:"column:icms_csosn;size:3" json:"icms_csosn"`
	PISCst        string       `gorm:"column:pis_cst;size:2" json:"pis_cst"`
	PISValor      float64      `gorm:"column:pis_valor" json:"pis_valor"`
	COFINSCst     string       `gorm:"column:cofins_cst;size:2" json:"cofins_cst"`
	COFINSValor   float64      `gorm:"column:cofins_valor" json:"cofins_valor"`
}

func (ItemNFCe) TableName() string { return "itens_nfce" }
