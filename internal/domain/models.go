package domain

// Domain mirrors the payloads served by the operadoras backend.

// Operadora is an active health-insurance operator as listed by the backend.
type Operadora struct {
	RegistroOperadora       string  `json:"registro_operadora"`
	CNPJ                    string  `json:"cnpj"`
	RazaoSocial             *string `json:"razao_social"`
	NomeFantasia            *string `json:"nome_fantasia"`
	Modalidade              *string `json:"modalidade"`
	Logradouro              *string `json:"logradouro"`
	Numero                  *string `json:"numero"`
	Complemento             *string `json:"complemento"`
	Bairro                  *string `json:"bairro"`
	Cidade                  *string `json:"cidade"`
	UF                      *string `json:"uf"`
	CEP                     *string `json:"cep"`
	DDD                     *string `json:"ddd"`
	Telefone                *string `json:"telefone"`
	Fax                     *string `json:"fax"`
	EnderecoEletronico      *string `json:"endereco_eletronico"`
	Representante           *string `json:"representante"`
	CargoRepresentante      *string `json:"cargo_representante"`
	RegiaoDeComercializacao *int    `json:"regiao_de_comercializacao"`
	// DataRegistroANS is an ISO date (YYYY-MM-DD).
	DataRegistroANS *string `json:"data_registro_ans"`
}

// OperadoraDespesa is an entry of the top-expense rankings.
type OperadoraDespesa struct {
	Operadora
	TotalDeDespesa float64 `json:"total_de_despesa"`
}

// OperadoraDetalhe is the single-operator payload; statements are referenced by id.
type OperadoraDetalhe struct {
	Operadora
	DemonstracoesContabeis []int64 `json:"demonstracoes_contabeis"`
}

// OperadorasPage is one page of the operator listing.
type OperadorasPage struct {
	Operadoras []Operadora `json:"operadoras"`
	NextCursor *string     `json:"next_cursor"`
}

// Demonstracao is a quarterly accounting statement line.
type Demonstracao struct {
	ID                int64    `json:"id"`
	DataDemonstracao  string   `json:"data_demonstracao"`
	Trimestre         int      `json:"trimestre"`
	Ano               int      `json:"ano"`
	RegistroOperadora string   `json:"registro_operadora"`
	CdContaContabil   int64    `json:"cd_conta_contabil"`
	Descricao         *string  `json:"descricao"`
	VlSaldoInicial    *float64 `json:"vl_saldo_inicial"`
	VlSaldoFinal      *float64 `json:"vl_saldo_final"`
}

// DemonstracaoDetalhe embeds the filing operator.
type DemonstracaoDetalhe struct {
	Demonstracao
	Operadora *Operadora `json:"operadora"`
}

// DemonstracoesPage is one page of the statement listing.
type DemonstracoesPage struct {
	Demonstracoes []Demonstracao `json:"demonstracoes"`
	NextCursor    *int64         `json:"next_cursor"`
}

// TrimestreAno is a distinct quarter/year pair.
type TrimestreAno struct {
	Trimestre int `json:"trimestre"`
	Ano       int `json:"ano"`
}
