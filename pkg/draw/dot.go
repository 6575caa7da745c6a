package draw

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/flightdesk/appctx"
	"github.com/flightdesk/appctx/pkg/dag"
)

var applicationType = reflect.TypeFor[appctx.Application]()

type dotRenderer struct {
	*strings.Builder

	graph *dag.DAG[reflect.Type, *appctx.Definition]
}

func (r *dotRenderer) Render() []byte {
	r.WriteString(`
	digraph DependencyGraph {
		graph [size="15,30"];
		fontname="Helvetica,Arial,sans-serif"
		node [fontname="Helvetica,Arial,sans-serif"]
		edge [fontname="Helvetica,Arial,sans-serif"]
	`)

	for _, vertex := range r.graph.TopologicalOrder() {
		r.renderVertex(vertex)
	}

	for id, vertex := range r.graph.TopologicalOrder() {
		for _, edge := range r.graph.OutEdges(id) {
			edgeVertex, _ := r.graph.GetVertex(edge)
			r.renderEdge(vertex, edgeVertex)
		}
	}

	r.WriteString("}")

	return []byte(r.String())
}

func (r *dotRenderer) vertexShape(vertex *appctx.Definition) string {
	if vertex.Type() == applicationType || vertex.Type().Implements(applicationType) {
		return "cds"
	}

	if len(r.graph.OutEdges(vertex.Type())) == 0 {
		return "house"
	}

	return "ellipse"
}

// Factories pull dependencies at runtime, their edges are dashed.
func (r *dotRenderer) edgeStyle(source *appctx.Definition) string {
	if source.Kind() == appctx.KindFactory {
		return "dashed"
	}
	return "solid"
}

func (r *dotRenderer) vertexColor(vertex *appctx.Definition) string {
	if vertex.Condition() != nil {
		return "lightgoldenrod1"
	}
	return "transparent"
}

func (r *dotRenderer) renderVertex(vertex *appctx.Definition) {
	fmt.Fprintf(r, `%s [label="%s", tooltip="%s", shape="%s", fillcolor="%s", style="filled"]`,
		sanitizeID(vertex.Name()), simplifyName(vertex.Name()), tooltip(vertex), r.vertexShape(vertex), r.vertexColor(vertex),
	)
	r.WriteRune('\n')
}

func (r *dotRenderer) renderEdge(source, target *appctx.Definition) {
	fmt.Fprintf(r, `%s -> %s [style="%s"]`, sanitizeID(source.Name()), sanitizeID(target.Name()), r.edgeStyle(source))
	r.WriteRune('\n')
}

// RenderDOT renders the dependency graph of a container in Graphviz DOT format.
// Conditional components are highlighted, the application entry point is drawn as "cds".
func RenderDOT(graph *dag.DAG[reflect.Type, *appctx.Definition]) []byte {
	renderer := &dotRenderer{Builder: &strings.Builder{}, graph: graph}

	return renderer.Render()
}

func tooltip(vertex *appctx.Definition) string {
	return strings.ReplaceAll(vertex.String(), `"`, `'`)
}

func sanitizeID(id string) string {
	result := strings.NewReplacer("*", "", ".", "_", "/", "_", "-", "_", "[", "_", "]", "_").Replace(id)
	return result
}

func simplifyName(name string) string {
	parts := strings.Split(name, "/")
	last := parts[len(parts)-1]
	if strings.HasPrefix(name, "*") {
		return "*" + last
	}
	return last
}
