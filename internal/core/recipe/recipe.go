package recipe

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/melih/slipway/internal/core/domain"
)

// The build recipe keeps a strict layer order: the dependency manifest is
// copied and installed before the rest of the source tree, so application
// code changes never invalidate the dependency layer. The install step's
// cache key is a function solely of the manifest's content.
//
// pip's download cache is disabled to keep the image small; it would never
// be hit again inside an immutable image anyway.
const dockerfileTemplate = `FROM {{.Runtime.Ref}}

WORKDIR {{.WorkDir}}

COPY {{.Manifest}} .
RUN pip install --no-cache-dir -r {{.Manifest}}

COPY . .

EXPOSE {{.Port}}

CMD ["uvicorn", "{{.Entrypoint.Target}}", "--host", "0.0.0.0", "--port", "{{.Port}}"]
`

var tmpl = template.Must(template.New("dockerfile").Parse(dockerfileTemplate))

// Render produces the Dockerfile for a blueprint. Rendering is pure and
// idempotent: the same blueprint always yields identical bytes.
func Render(bp domain.Blueprint) ([]byte, error) {
	if err := bp.Validate(); err != nil {
		return nil, fmt.Errorf("invalid blueprint: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, bp); err != nil {
		return nil, fmt.Errorf("failed to render recipe: %w", err)
	}
	return buf.Bytes(), nil
}
