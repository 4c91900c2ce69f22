package compliance

import (
	"testing"

	"github.com/stretchr/testify/require"

	"postergen/internal/domain/entity"
)

func TestBuildPrompt(t *testing.T) {
	objects := []entity.DetectedObject{{Label: "juice"}, {Label: "  "}, {Label: "bottle"}}
	cctx := entity.ComplianceContext{
		UserInputs: map[string]string{"price": "£4.99", "headline": "Fresh"},
		Format:     entity.CanvasSquare,
	}

	prompt, err := BuildPrompt(`<h1>Fresh</h1>`, objects, cctx)
	require.NoError(t, err)

	require.Contains(t, prompt, "HTML CONTENT:\n<h1>Fresh</h1>\n")
	require.Contains(t, prompt, "Detected objects:\n- juice\n- bottle\n")
	require.Contains(t, prompt, `{"headline":"Fresh","price":"£4.99"}`)
	require.Contains(t, prompt, `{"width":1080,"height":1080}`)
	require.Contains(t, prompt, "DRINKAWARE")
	require.Contains(t, prompt, "Respond with ONLY a JSON object")
}

func TestBuildPrompt_Deterministic(t *testing.T) {
	cctx := entity.ComplianceContext{UserInputs: map[string]string{"a": "1", "b": "2", "c": "3", "d": "4"}}

	first, err := BuildPrompt("<p>x</p>", nil, cctx)
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		next, err := BuildPrompt("<p>x</p>", nil, cctx)
		require.NoError(t, err)
		require.Equal(t, first, next)
	}
}

func TestBuildPrompt_EmptyInputs(t *testing.T) {
	prompt, err := BuildPrompt("", nil, entity.ComplianceContext{})
	require.NoError(t, err)

	require.Contains(t, prompt, "Detected objects:\n- (none detected)\n")
	require.Contains(t, prompt, "User inputs:\n{}\n")
	require.Contains(t, prompt, "Format metadata:\n{}\n")
}

func TestBuildPrompt_UserInputsNotHTMLEscaped(t *testing.T) {
	cctx := entity.ComplianceContext{UserInputs: map[string]string{"offer": "T&C <b>"}}

	prompt, err := BuildPrompt("<p>x</p>", nil, cctx)
	require.NoError(t, err)

	require.Contains(t, prompt, "User inputs:\n{\"offer\":\"T&C <b>\"}\n")
	require.NotContains(t, prompt, `\u0026`)
	require.NotContains(t, prompt, `\u003c`)
}
