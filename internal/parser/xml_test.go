package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tdisc/internal/domain"
)

func TestXMLParser_NestedTags(t *testing.T) {
	output := `<Group><TestCase name="X" filename="f.cpp" line="10"><Tags><Tag>slow</Tag></Tags></TestCase></Group>`

	tests, err := NewXMLParser().Parse(output, source)
	require.NoError(t, err)
	assert.Equal(t, []domain.TestCase{
		{Name: "X", Source: source, Filename: "f.cpp", Line: 10, Tags: []string{"slow"}},
	}, tests)
}

func TestXMLParser_ReportLayouts(t *testing.T) {
	output := `<?xml version="1.0" encoding="UTF-8"?>
<!-- discovery report -->
<Catch name="Catch_Tests">
  <Group name="Catch_Tests">
    <TestCase name="Attribute tags" filename="/src/a.cpp" line="12" tags="[fast][.]"/>
    <TestCase>
      <Name>Element layout</Name>
      <Tags>[db][slow]</Tags>
      <SourceInfo>
        <File>/src/b.cpp</File>
        <Line>34</Line>
      </SourceInfo>
    </TestCase>
    <OverallResult success="true"/>
    <TestCase name="No location"/>
    <TestCase name="Bad line" line="abc"/>
    <TestCase name=""/>
  </Group>
  <Group name="second">
    <TestCase name="Ignored"/>
  </Group>
</Catch>
`

	tests, err := NewXMLParser().Parse(output, source)
	require.NoError(t, err)
	assert.Equal(t, []domain.TestCase{
		{Name: "Attribute tags", Source: source, Filename: "/src/a.cpp", Line: 12, Tags: []string{"fast", "."}},
		{Name: "Element layout", Source: source, Filename: "/src/b.cpp", Line: 34, Tags: []string{"db", "slow"}},
		{Name: "No location", Source: source, Tags: []string{}},
		{Name: "Bad line", Source: source, Tags: []string{}},
	}, tests)
}

func TestXMLParser_Errors(t *testing.T) {
	tests := []struct {
		name   string
		output string
		err    error
	}{
		{name: "empty output", output: "", err: ErrMalformedXML},
		{name: "truncated document", output: `<Group><TestCase name="X">`, err: ErrMalformedXML},
		{name: "plain text", output: "All available test cases:\n  Test1\n", err: ErrMalformedXML},
		{name: "two roots", output: `<Group/><Group/>`, err: ErrMalformedXML},
		{name: "trailing text", output: `<Group/>garbage`, err: ErrMalformedXML},
		{name: "no group", output: `<MatchingTests><TestCase name="X"/></MatchingTests>`, err: ErrMissingGroup},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, err := NewXMLParser().Parse(tt.output, source)
			assert.ErrorIs(t, err, tt.err)
			assert.Empty(t, parsed)
		})
	}
}

func TestXMLParser_EmptyGroup(t *testing.T) {
	parsed, err := NewXMLParser().Parse(`<Group name="empty"></Group>`, source)
	require.NoError(t, err)
	assert.Empty(t, parsed)
}
