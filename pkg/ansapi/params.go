package ansapi

import (
	"fmt"
	"net/url"
	"reflect"
	"strconv"

	"github.com/spf13/cast"
)

// Params are query parameters forwarded as-is. Values may be scalars,
// pointers to scalars, or slices of scalars; slices become repeated keys
// and nil values are skipped.
type Params map[string]any

// Values encodes p as a query.
func (p Params) Values() url.Values {
	if len(p) == 0 {
		return nil
	}
	q := make(url.Values, len(p))
	for k, v := range p {
		appendValue(q, k, v)
	}
	return q
}

func appendValue(q url.Values, key string, v any) {
	switch tv := v.(type) {
	case nil:
		return
	case string:
		q.Add(key, tv)
		return
	case []byte:
		q.Add(key, string(tv))
		return
	case []string:
		for _, s := range tv {
			q.Add(key, s)
		}
		return
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			return
		}
		appendValue(q, key, rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			appendValue(q, key, rv.Index(i).Interface())
		}
	default:
		s, err := cast.ToStringE(v)
		if err != nil {
			s = fmt.Sprint(v)
		}
		q.Add(key, s)
	}
}

// OperadorasQuery holds the filters accepted by the operator listing.
// Zero values are omitted.
type OperadorasQuery struct {
	Limit                   int
	StartCursor             string
	CNPJ                    string
	RazaoSocial             string
	NomeFantasia            string
	Modalidade              string
	RegiaoDeComercializacao int
	Cidade                  string
	UF                      string
}

func (q OperadorasQuery) Params() Params {
	p := Params{}
	setInt(p, "limit", q.Limit)
	setString(p, "start_cursor", q.StartCursor)
	setString(p, "cnpj", q.CNPJ)
	setString(p, "razao_social", q.RazaoSocial)
	setString(p, "nome_fantasia", q.NomeFantasia)
	setString(p, "modalidade", q.Modalidade)
	setInt(p, "regiao_de_comercializacao", q.RegiaoDeComercializacao)
	setString(p, "cidade", q.Cidade)
	setString(p, "uf", q.UF)
	return p
}

// DespesasQuery holds the filters of the top-expense rankings. The backend
// rejects requests without Descricao.
type DespesasQuery struct {
	Descricao string
	Trimestre int
	Ano       int
}

func (q DespesasQuery) Params() Params {
	p := Params{}
	setString(p, "descricao", q.Descricao)
	setInt(p, "trimestre", q.Trimestre)
	setInt(p, "ano", q.Ano)
	return p
}

// DemonstracoesQuery holds the filters accepted by the statement listing.
type DemonstracoesQuery struct {
	Limit             int
	StartCursor       int64
	Trimestre         int
	Ano               int
	Descricao         string
	RegistroOperadora string
}

func (q DemonstracoesQuery) Params() Params {
	p := Params{}
	setInt(p, "limit", q.Limit)
	if q.StartCursor > 0 {
		p["start_cursor"] = strconv.FormatInt(q.StartCursor, 10)
	}
	setInt(p, "trimestre", q.Trimestre)
	setInt(p, "ano", q.Ano)
	setString(p, "descricao", q.Descricao)
	setString(p, "registro_operadora", q.RegistroOperadora)
	return p
}

func setString(p Params, key, v string) {
	if v != "" {
		p[key] = v
	}
}

func setInt(p Params, key string, v int) {
	if v != 0 {
		p[key] = v
	}
}
