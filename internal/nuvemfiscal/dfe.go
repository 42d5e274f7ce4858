package nuvemfiscal

// Wire types for the Nuvem Fiscal DF-e API. Field names and casing follow the
// provider's JSON schema, which in turn mirrors the SEFAZ NFC-e layout 4.00.

type DfePedidoEmissao struct {
	InfNFe   InfNFe `json:"infNFe"`
	Ambiente string `json:"ambiente"`
}

type InfNFe struct {
	Versao string `json:"versao"`
	ID     string `json:"Id"`
	Ide    Ide    `json:"ide"`
	Emit   Emit   `json:"emit"`
	Dest   *Dest  `json:"dest,omitempty"`
	Det    []Det  `json:"det"`
	Total  Total  `json:"total"`
	Transp Transp `json:"transp"`
	Pag    Pag    `json:"pag"`
}

type Ide struct {
	CUF      int    `json:"cUF"`
	CNF      string `json:"cNF"`
	NatOp    string `json:"natOp"`
	Mod      int    `json:"mod"`
	Serie    int    `json:"serie"`
	NNF      int    `json:"nNF"`
	DhEmi    string `json:"dhEmi"`
	TpNF     int    `json:"tpNF"`
	IDDest   int    `json:"idDest"`
	CMunFG   string `json:"cMunFG"`
	TpImp    int    `json:"tpImp"`
	TpEmis   int    `json:"tpEmis"`
	CDV      int    `json:"cDV"`
	TpAmb    int    `json:"tpAmb"`
	FinNFe   int    `json:"finNFe"`
	IndFinal int    `json:"indFinal"`
	IndPres  int    `json:"indPres"`
	ProcEmi  int    `json:"procEmi"`
	VerProc  string `json:"verProc"`
}

type Emit struct {
	CNPJ      string    `json:"CNPJ"`
	XNome     string    `json:"xNome"`
	EnderEmit EnderEmit `json:"enderEmit"`
	IE        string    `json:"IE"`
	CRT       int       `json:"CRT"`
}

type EnderEmit struct {
	XLgr    string `json:"xLgr"`
	Nro     string `json:"nro"`
	XBairro string `json:"xBairro"`
	CMun    string `json:"cMun"`
	XMun    string `json:"xMun"`
	UF      string `json:"UF"`
	CEP     string `json:"CEP"`
	CPais   string `json:"cPais"`
	XPais   string `json:"xPais"`
}

type Dest struct {
	CPF       string `json:"CPF,omitempty"`
	XNome     string `json:"xNome"`
	IndIEDest int    `json:"indIEDest"`
}

type Det struct {
	NItem   int     `json:"nItem"`
	Prod    Prod    `json:"prod"`
	Imposto Imposto `json:"imposto"`
}

type Prod struct {
	CProd    string  `json:"cProd"`
	XProd    string  `json:"xProd"`
	NCM      string  `json:"NCM"`
	CFOP     string  `json:"CFOP"`
	UCom     string  `json:"uCom"`
	QCom     float64 `json:"qCom"`
	VUnCom   float64 `json:"vUnCom"`
	VProd    float64 `json:"vProd"`
	UTrib    string  `json:"uTrib"`
	QTrib    float64 `json:"qTrib"`
	VUnTrib  float64 `json:"vUnTrib"`
	IndTot   int     `json:"indTot"`
	CEAN     string  `json:"cEAN"`
	CEANTrib string  `json:"cEANTrib"`
}

type Imposto struct {
	ICMS   ICMS   `json:"ICMS"`
	PIS    PIS    `json:"PIS"`
	COFINS COFINS `json:"COFINS"`
}

type ICMS struct {
	ICMSSN102 ICMSSN102 `json:"ICMSSN102"`
}

type ICMSSN102 struct {
	Orig  int    `json:"orig"`
	CSOSN string `json:"CSOSN"`
}

type PIS struct {
	PISAliq PISAliq `json:"PISAliq"`
}

type PISAliq struct {
	CST  string  `json:"CST"`
	VBC  float64 `json:"vBC"`
	PPIS float64 `json:"pPIS"`
	VPIS float64 `json:"vPIS"`
}

type COFINS struct {
	COFINSAliq COFINSAliq `json:"COFINSAliq"`
}

type COFINSAliq struct {
	CST     string  `json:"CST"`
	VBC     float64 `json:"vBC"`
	PCOFINS float64 `json:"pCOFINS"`
	VCOFINS float64 `json:"vCOFINS"`
}

type Total struct {
	ICMSTot ICMSTot `json:"ICMSTot"`
}

type ICMSTot struct {
	VBC       float64 `json:"vBC"`
	VICMS     float64 `json:"vICMS"`
	VICMSDes  float64 `json:"vICMSDeson"`
	VFCP      float64 `json:"vFCP"`
	VBCST     float64 `json:"vBCST"`
	VST       float64 `json:"vST"`
	VFCPST    float64 `json:"vFCPST"`
	VFCPSTRet float64 `json:"vFCPSTRet"`
	VProd     float64 `json:"vProd"`
	VFrete    float64 `json:"vFrete"`
	VSeg      float64 `json:"vSeg"`
	VDesc     float64 `json:"vDesc"`
	VII       float64 `json:"vII"`
	VIPI      float64 `json:"vIPI"`
	VIPIDevol float64 `json:"vIPIDevol"`
	VPIS      float64 `json:"vPIS"`
	VCOFINS   float64 `json:"vCOFINS"`
	VOutro    float64 `json:"vOutro"`
	VNF       float64 `json:"vNF"`
}

type Transp struct {
	ModFrete int `json:"modFrete"`
}

type Pag struct {
	DetPag []DetPag `json:"detPag"`
	VTroco float64  `json:"vTroco"`
}

type DetPag struct {
	IndPag int     `json:"indPag"`
	TPag   string  `json:"tPag"`
	VPag   float64 `json:"vPag"`
}

// DfeResposta is the provider's view of a submitted document.
type DfeResposta struct {
	ID          string          `json:"id"`
	Ambiente    string          `json:"ambiente"`
	CreatedAt   string          `json:"created_at"`
	Status      string          `json:"status"`
	DataEmissao string          `json:"data_emissao"`
	Serie       int             `json:"serie"`
	Numero      int             `json:"numero"`
	ValorTotal  float64         `json:"valor_total"`
	Chave       string          `json:"chave"`
	Autorizacao *DfeAutorizacao `json:"autorizacao,omitempty"`
}

type DfeAutorizacao struct {
	ID              string `json:"id"`
	Status          string `json:"status"`
	DataEvento      string `json:"data_evento"`
	NumeroProtocolo string `json:"numero_protocolo"`
	CodigoStatus    int    `json:"codigo_status"`
	MotivoStatus    string `json:"motivo_status"`
}

// DfeCancelamento is the provider's response to a cancellation event.
type DfeCancelamento struct {
	ID              string `json:"id"`
	Status          string `json:"status"`
	Justificativa   string `json:"justificativa"`
	DataEvento      string `json:"data_evento"`
	NumeroProtocolo string `json:"numero_protocolo"`
	CodigoStatus    int    `json:"codigo_status"`
	MotivoStatus    string `json:"motivo_status"`
}

// EmpresaPayload mirrors the provider's merchant registration schema.
type EmpresaPayload struct {
	CpfCnpj            string          `json:"cpf_cnpj"`
	NomeRazaoSocial    string          `json:"nome_razao_social"`
	NomeFantasia       string          `json:"nome_fantasia,omitempty"`
	InscricaoEstadual  string          `json:"inscricao_estadual,omitempty"`
	InscricaoMunicipal string          `json:"inscricao_municipal,omitempty"`
	Email              string          `json:"email,omitempty"`
	Fone               string          `json:"fone,omitempty"`
	Endereco           EnderecoPayload `json:"endereco"`
}

type EnderecoPayload struct {
	Logradouro      string `json:"logradouro"`
	Numero          string `json:"numero"`
	Complemento     string `json:"complemento,omitempty"`
	Bairro          string `json:"bairro"`
	CodigoMunicipio string `json:"codigo_municipio"`
	CidadeNome      string `json:"cidade_nome"`
	UF              string `json:"uf"`
	CEP             string `json:"cep"`
}

// CertificadoInfo describes the digital certificate held by the provider.
type CertificadoInfo struct {
	SerialNumber   string `json:"serial_number"`
	IssuerName     string `json:"issuer_name"`
	SubjectName    string `json:"subject_name"`
	NotValidBefore string `json:"not_valid_before"`
	NotValidAfter  string `json:"not_valid_after"`
	Thumbprint     string `json:"thumbprint"`
	CpfCnpj        string `json:"cpf_cnpj"`
}
