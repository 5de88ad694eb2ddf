package contract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAutoFix_CanonicalizesComponentImport(t *testing.T) {
	code := `import React from 'react';
import { Button, Card } from '../src/components/ui/index.js';

export default function App() {
  return <Card title="Hi"><Button>Go</Button></Card>;
}`

	fixed := AutoFix(code)
	assert.Contains(t, fixed, "import { Button, Card } from './components/ui'")
	assert.NotContains(t, fixed, "components/ui/index.js")
}

func TestAutoFix_SynthesizesImportFromDetectedTags(t *testing.T) {
	code := `export default function App() {
  return (
    <div className="ui-layout-col">
      <Navbar brand="Shop" />
      <Table columns={cols} data={rows} />
    </div>
  );
}`

	fixed := AutoFix(code)
	// Detected kinds only, in whitelist order.
	assert.Contains(t, fixed, "import { Table, Navbar } from './components/ui';")
}

func TestAutoFix_NoComponentImportWhenNoTags(t *testing.T) {
	code := `export default function App() { return <div>plain</div>; }`

	fixed := AutoFix(code)
	assert.NotContains(t, fixed, "components/ui")
	assert.Contains(t, fixed, "import React from 'react';")
}

func TestAutoFix_AddsStatefulRuntimeImport(t *testing.T) {
	code := `export default function App() {
  const [open, setOpen] = useState(false);
  return <Button onClick={() => setOpen(true)}>Open</Button>;
}`

	fixed := AutoFix(code)
	assert.Contains(t, fixed, "import React, { useState } from 'react';")
}

func TestAutoFix_KeepsExistingRuntimeImport(t *testing.T) {
	code := `import React from 'react';
export default function App() { return <Button>x</Button>; }`

	fixed := AutoFix(code)
	require.Equal(t, 1, strings.Count(fixed, "import React"))
}

func TestAutoFix_Idempotent(t *testing.T) {
	inputs := []string{
		`export default function App() { return <Table columns={c} data={d} />; }`,
		`import { Button } from 'components/ui'; export default () => <Button/>;`,
		`export default function App() {
  const [n, setN] = useState(0);
  return <Card><Chart type="bar" data={d} /></Card>;
}`,
		``,
		`no jsx at all`,
	}

	for _, code := range inputs {
		once := AutoFix(code)
		twice := AutoFix(once)
		assert.Equal(t, once, twice, "AutoFix must be idempotent for %q", code)
	}
}
