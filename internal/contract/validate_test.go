package contract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cleanCode = `import React, { useState } from 'react';
import { Button, Card, Table } from './components/ui';

export default function App() {
  const [open, setOpen] = useState(false);
  return (
    <div className="ui-layout-col">
      <Card title="Users">
        <Table columns={cols} data={rows} striped />
      </Card>
      <Button variant="primary" onClick={() => setOpen(true)}>Add</Button>
    </div>
  );
}`

func TestValidate_CleanCodePasses(t *testing.T) {
	report := Validate(cleanCode)
	assert.True(t, report.Valid)
	assert.Empty(t, report.Issues)
}

func TestValidate_FlagsDisallowedInlineStyle(t *testing.T) {
	code := `export default () => <div style={{color: 'red'}}>x</div>;`

	report := Validate(code)
	require.False(t, report.Valid)
	assert.Contains(t, report.Issues[0], "Inline style detected")
}

func TestValidate_AllowsSizingStyles(t *testing.T) {
	code := `export default () => <Chart type="bar" data={d} style={{height: 300}} />;`

	report := Validate(code)
	assert.True(t, report.Valid, "height-only styles are allowed: %v", report.Issues)
}

func TestValidate_FlagsNonWhitelistedTagOncePerKind(t *testing.T) {
	code := `export default () => (
  <div>
    <Accordion />
    <Accordion />
    <Carousel />
    <Table columns={c} data={d} />
  </div>
);`

	report := Validate(code)
	require.False(t, report.Valid)
	require.Len(t, report.Issues, 2, "one issue per distinct offending tag")
	assert.Contains(t, report.Issues[0], "<Accordion>")
	assert.Contains(t, report.Issues[1], "<Carousel>")
}

func TestValidate_RuntimeTagAllowed(t *testing.T) {
	code := `export default () => <React.Fragment><Button>x</Button></React.Fragment>;`

	report := Validate(code)
	assert.True(t, report.Valid, "issues: %v", report.Issues)
}

func TestValidate_FlagsExternalImport(t *testing.T) {
	code := `import _ from 'lodash';
import { Button } from './components/ui';
import React from 'react';`

	report := Validate(code)
	require.False(t, report.Valid)
	require.Len(t, report.Issues, 1)
	assert.Contains(t, report.Issues[0], "lodash")
}

func TestValidate_FlagsDangerousAPIs(t *testing.T) {
	code := `export default () => {
  eval("x");
  el.innerHTML = html;
  return <Button>x</Button>;
};`

	report := Validate(code)
	require.False(t, report.Valid)
	assert.Contains(t, report.Issues, "Dangerous API usage: eval(")
	assert.Contains(t, report.Issues, "Dangerous API usage: innerHTML")
}

func TestValidate_NeverMutates(t *testing.T) {
	code := `import _ from 'lodash'; export default () => <Widget/>;`
	before := code
	_ = Validate(code)
	assert.Equal(t, before, code)
}

func TestDetectComponents(t *testing.T) {
	tests := []struct {
		name string
		code string
		want []string
	}{
		{"none", `<div>nothing</div>`, nil},
		{"whitelist order", `<Chart/><Button/><Table/>`, []string{"Button", "Table", "Chart"}},
		{"closing tags ignored", `<Card title="x">text</Card>`, []string{"Card"}},
		{"non-whitelist skipped", `<Widget/><Modal isOpen/>`, []string{"Modal"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectComponents(tt.code))
		})
	}
}
