package main

import (
	"encoding/json"
	"fmt"

	"github.com/samvad-hq/ans-operadoras/pkg/ansapi"
	"github.com/samvad-hq/ans-operadoras/pkg/ansportal"
	"github.com/samvad-hq/ans-operadoras/pkg/httpclient"
	"golang.org/x/sync/errgroup"
)

type operadorasCmd struct {
	List         operadorasListCmd `cmd:"" help:"List operators with filters and cursor pagination."`
	TopTrimestre topTrimestreCmd   `cmd:"" name:"top-trimestre" help:"Operators with the largest expenses in a quarter."`
	TopAno       topAnoCmd         `cmd:"" name:"top-ano" help:"Operators with the largest expenses in a year."`
	UFs          ufsCmd            `cmd:"" name:"ufs" help:"Distinct UFs."`
	Modalidades  modalidadesCmd    `cmd:"" help:"Distinct modalidades."`
	Get          operadoraGetCmd   `cmd:"" help:"Fetch one operator by registro ANS."`
}

type operadorasListCmd struct {
	paramFlags
	Limit       int    `help:"Page size."`
	StartCursor string `help:"Cursor returned as next_cursor by the previous page."`
	UF          string `name:"uf" help:"Filter by UF."`
	Modalidade  string `help:"Filter by modalidade."`
}

func (c *operadorasListCmd) Run(rt *runtime) error {
	base, err := c.params()
	if err != nil {
		return err
	}
	q := ansapi.OperadorasQuery{Limit: c.Limit, StartCursor: c.StartCursor, UF: c.UF, Modalidade: c.Modalidade}
	resp, err := rt.api.ListOperadoras(rt.ctx, merge(base, q.Params()))
	if err != nil {
		return err
	}
	return rt.print(resp)
}

type despesasFlags struct {
	paramFlags
	Descricao string `required:"" help:"Expense account description (required by the backend)."`
	Trimestre int    `help:"Quarter (1-4)."`
	Ano       int    `help:"Year."`
}

func (f despesasFlags) query() (ansapi.Params, error) {
	base, err := f.params()
	if err != nil {
		return nil, err
	}
	q := ansapi.DespesasQuery{Descricao: f.Descricao, Trimestre: f.Trimestre, Ano: f.Ano}
	return merge(base, q.Params()), nil
}

type topTrimestreCmd struct {
	despesasFlags
}

func (c *topTrimestreCmd) Run(rt *runtime) error {
	params, err := c.query()
	if err != nil {
		return err
	}
	resp, err := rt.api.TopDespesasTrimestre(rt.ctx, params)
	if err != nil {
		return err
	}
	return rt.print(resp)
}

type topAnoCmd struct {
	despesasFlags
}

func (c *topAnoCmd) Run(rt *runtime) error {
	params, err := c.query()
	if err != nil {
		return err
	}
	resp, err := rt.api.TopDespesasAno(rt.ctx, params)
	if err != nil {
		return err
	}
	return rt.print(resp)
}

type ufsCmd struct{}

func (ufsCmd) Run(rt *runtime) error {
	resp, err := rt.api.UFs(rt.ctx)
	if err != nil {
		return err
	}
	return rt.print(resp)
}

type modalidadesCmd struct{}

func (modalidadesCmd) Run(rt *runtime) error {
	resp, err := rt.api.Modalidades(rt.ctx)
	if err != nil {
		return err
	}
	return rt.print(resp)
}

type operadoraGetCmd struct {
	Registro string `arg:"" help:"Registro ANS of the operator."`
}

func (c *operadoraGetCmd) Run(rt *runtime) error {
	resp, err := rt.api.Operadora(rt.ctx, c.Registro)
	if err != nil {
		return err
	}
	return rt.print(resp)
}

type demonstracoesCmd struct {
	List       demonstracoesListCmd `cmd:"" help:"List statements with filters and cursor pagination."`
	Descricoes descricoesCmd        `cmd:"" help:"Distinct account descriptions."`
	Trimestres trimestresCmd        `cmd:"" help:"Distinct quarter/year pairs."`
	Get        demonstracaoGetCmd   `cmd:"" help:"Fetch one statement by id."`
}

type demonstracoesListCmd struct {
	paramFlags
	Limit             int    `help:"Page size."`
	StartCursor       int64  `help:"Cursor returned as next_cursor by the previous page."`
	Trimestre         int    `help:"Quarter (1-4)."`
	Ano               int    `help:"Year."`
	RegistroOperadora string `help:"Filter by operator registro ANS."`
}

func (c *demonstracoesListCmd) Run(rt *runtime) error {
	base, err := c.params()
	if err != nil {
		return err
	}
	q := ansapi.DemonstracoesQuery{
		Limit:             c.Limit,
		StartCursor:       c.StartCursor,
		Trimestre:         c.Trimestre,
		Ano:               c.Ano,
		RegistroOperadora: c.RegistroOperadora,
	}
	resp, err := rt.api.ListDemonstracoes(rt.ctx, merge(base, q.Params()))
	if err != nil {
		return err
	}
	return rt.print(resp)
}

type descricoesCmd struct{}

func (descricoesCmd) Run(rt *runtime) error {
	resp, err := rt.api.Descricoes(rt.ctx)
	if err != nil {
		return err
	}
	return rt.print(resp)
}

type trimestresCmd struct{}

func (trimestresCmd) Run(rt *runtime) error {
	resp, err := rt.api.TrimestresEAnos(rt.ctx)
	if err != nil {
		return err
	}
	return rt.print(resp)
}

type demonstracaoGetCmd struct {
	ID string `arg:"" name:"id" help:"Statement id."`
}

func (c *demonstracaoGetCmd) Run(rt *runtime) error {
	resp, err := rt.api.Demonstracao(rt.ctx, c.ID)
	if err != nil {
		return err
	}
	return rt.print(resp)
}

type filtrosCmd struct{}

// Run fetches the four filter lists concurrently and prints them together.
func (filtrosCmd) Run(rt *runtime) error {
	fetchers := []struct {
		name  string
		fetch func() (httpclient.Response, error)
	}{
		{"ufs", func() (httpclient.Response, error) { return rt.api.UFs(rt.ctx) }},
		{"modalidades", func() (httpclient.Response, error) { return rt.api.Modalidades(rt.ctx) }},
		{"descricoes", func() (httpclient.Response, error) { return rt.api.Descricoes(rt.ctx) }},
		{"trimestres", func() (httpclient.Response, error) { return rt.api.TrimestresEAnos(rt.ctx) }},
	}

	bodies := make([]json.RawMessage, len(fetchers))
	var g errgroup.Group
	for i, f := range fetchers {
		g.Go(func() error {
			resp, err := f.fetch()
			if err != nil {
				return fmt.Errorf("%s: %w", f.name, err)
			}
			bodies[i] = resp.Body()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	out := make(map[string]json.RawMessage, len(fetchers))
	for i, f := range fetchers {
		out[f.name] = bodies[i]
	}
	combined, err := json.Marshal(out)
	if err != nil {
		return fmt.Errorf("encode filtros: %w", err)
	}
	return rt.write(combined)
}

type anexosCmd struct {
	URL         string `name:"url" help:"Portal page listing the annexes (defaults to PORTAL_URL)."`
	Output      string `short:"o" default:"anexos.zip" type:"path" help:"Zip file to write."`
	Concurrency int    `default:"4" help:"Maximum parallel downloads."`
}

func (c *anexosCmd) Run(rt *runtime) error {
	pageURL := c.URL
	if pageURL == "" {
		pageURL = rt.cfg.PortalURL
	}

	client, err := httpclient.NewRestyClient(httpclient.Options{Timeout: rt.cfg.APITimeout})
	if err != nil {
		return err
	}
	scraper := ansportal.NewScraper(client, c.Concurrency)

	links, err := scraper.Discover(rt.ctx, pageURL, ansportal.DefaultFilters())
	if err != nil {
		return err
	}
	if len(links) == 0 {
		return fmt.Errorf("no annexes found at %s", pageURL)
	}
	files, err := scraper.Download(rt.ctx, links)
	if err != nil {
		return err
	}
	path, err := ansportal.SaveZip(c.Output, files)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(rt.out, "%d annexes saved to %s\n", len(files), path)
	return err
}
