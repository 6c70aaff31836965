package gateway

import "net/http"

// Doer executes one HTTP exchange. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// DoerFunc adapts a function to Doer.
type DoerFunc func(req *http.Request) (*http.Response, error)

func (f DoerFunc) Do(req *http.Request) (*http.Response, error) { return f(req) }

// Stage is one named step of the request pipeline.
type Stage interface {
	Name() string
	// Wrap returns a Doer that runs this stage around next.
	Wrap(next Doer) Doer
}

// Pipeline — упорядоченный список стадий поверх транспорта.
// Первая стадия внешняя: видит запрос первой и ответ последней.
type Pipeline struct {
	stages []Stage
	head   Doer
}

// NewPipeline builds the chain stages[0] → ... → stages[n-1] → transport.
func NewPipeline(transport Doer, stages ...Stage) *Pipeline {
	head := transport
	for i := len(stages) - 1; i >= 0; i-- {
		head = stages[i].Wrap(head)
	}
	return &Pipeline{stages: stages, head: head}
}

func (p *Pipeline) Do(req *http.Request) (*http.Response, error) {
	return p.head.Do(req)
}

// Names lists stage names in execution order.
func (p *Pipeline) Names() []string {
	names := make([]string, 0, len(p.stages))
	for _, s := range p.stages {
		names = append(names, s.Name())
	}
	return names
}
