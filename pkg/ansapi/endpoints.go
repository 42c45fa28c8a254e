package ansapi

import (
	"fmt"
	"net/http"
	"strings"
)

const idPlaceholder = "{id}"

// Endpoint describes one backend resource served by an accessor.
type Endpoint struct {
	Name   string
	Method string
	// Path is relative to the client's base URL and may contain {id}.
	Path string
	// Failure is the diagnostic message logged on error. For templated
	// paths it receives the identifier through a single %s verb.
	Failure string
}

var (
	EndpointOperadoras = Endpoint{
		Name:    "operadoras",
		Method:  http.MethodGet,
		Path:    "/operadoras/",
		Failure: "failed to fetch operadoras",
	}
	EndpointTopDespesasTrimestre = Endpoint{
		Name:    "operadoras.maiores_despesas_trimestre",
		Method:  http.MethodGet,
		Path:    "/operadoras/maiores_despesas_trimestre",
		Failure: "failed to fetch top expenses for the quarter",
	}
	EndpointTopDespesasAno = Endpoint{
		Name:    "operadoras.maiores_despesas_ano",
		Method:  http.MethodGet,
		Path:    "/operadoras/maiores_despesas_ano",
		Failure: "failed to fetch top expenses for the year",
	}
	EndpointUFs = Endpoint{
		Name:    "operadoras.select_ufs",
		Method:  http.MethodGet,
		Path:    "/operadoras/select_ufs",
		Failure: "failed to fetch UFs",
	}
	EndpointModalidades = Endpoint{
		Name:    "operadoras.select_modalidades",
		Method:  http.MethodGet,
		Path:    "/operadoras/select_modalidades",
		Failure: "failed to fetch modalidades",
	}
	EndpointOperadora = Endpoint{
		Name:    "operadoras.by_registro",
		Method:  http.MethodGet,
		Path:    "/operadoras/" + idPlaceholder,
		Failure: "failed to fetch operadora with registro %s",
	}
	EndpointDemonstracoes = Endpoint{
		Name:    "demonstracoes",
		Method:  http.MethodGet,
		Path:    "/demonstracoes/",
		Failure: "failed to fetch demonstracoes contabeis",
	}
	EndpointDescricoes = Endpoint{
		Name:    "demonstracoes.select_descricoes",
		Method:  http.MethodGet,
		Path:    "/demonstracoes/select_descricoes",
		Failure: "failed to fetch demonstracoes descriptions",
	}
	EndpointTrimestresEAnos = Endpoint{
		Name:    "demonstracoes.select_trimestres_e_anos",
		Method:  http.MethodGet,
		Path:    "/demonstracoes/select_trimestres_e_anos",
		Failure: "failed to fetch demonstracoes quarters and years",
	}
	EndpointDemonstracao = Endpoint{
		Name:    "demonstracoes.by_id",
		Method:  http.MethodGet,
		Path:    "/demonstracoes/" + idPlaceholder,
		Failure: "failed to fetch demonstracao contabil with id %s",
	}
)

// Endpoints lists every endpoint served by API.
func Endpoints() []Endpoint {
	return []Endpoint{
		EndpointOperadoras,
		EndpointTopDespesasTrimestre,
		EndpointTopDespesasAno,
		EndpointUFs,
		EndpointModalidades,
		EndpointOperadora,
		EndpointDemonstracoes,
		EndpointDescricoes,
		EndpointTrimestresEAnos,
		EndpointDemonstracao,
	}
}

// Templated reports whether the path takes an identifier.
func (e Endpoint) Templated() bool { return strings.Contains(e.Path, idPlaceholder) }

// Resolve substitutes id into the path verbatim.
func (e Endpoint) Resolve(id string) string {
	return strings.ReplaceAll(e.Path, idPlaceholder, id)
}

func (e Endpoint) failureMessage(id string) string {
	if e.Templated() {
		return fmt.Sprintf(e.Failure, id)
	}
	return e.Failure
}
