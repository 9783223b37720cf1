package workflow

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ophflow/ophflow/types"
)

// sampleWorkflow builds a small three-task pipeline with metadata.
func sampleWorkflow(t *testing.T) *Workflow {
	t.Helper()
	w, err := New("experiment",
		WithAuthor("climate-lab"),
		WithAbstract("Average sea surface temperature"),
		WithExecMode("async"),
		WithNCores("4"),
		WithCube("/work/tos"))
	require.NoError(t, err)

	_, err = w.NewTask("oph_createcontainer",
		Args{{Key: "container", Value: "work"}}, nil,
		WithTaskName("create"))
	require.NoError(t, err)

	_, err = w.NewTask("oph_importnc",
		Args{{Key: "measure", Value: "tos"}, {Key: "src_path", Value: "/data/tos.nc"}},
		Deps{{Task: "create"}},
		WithTaskName("import"),
		WithTaskOnError("abort"))
	require.NoError(t, err)

	_, err = w.NewTask("oph_reduce",
		Args{{Key: "operation", Value: "avg"}},
		Deps{{Task: "import", Argument: "cube"}},
		WithTaskName("reduce"))
	require.NoError(t, err)

	return w
}

func TestWorkflow_ToDocument(t *testing.T) {
	w := sampleWorkflow(t)
	doc := w.ToDocument()

	assert.Equal(t, "experiment", doc.Name)
	assert.Equal(t, "climate-lab", doc.Author)
	assert.Equal(t, "Average sea surface temperature", doc.Abstract)
	assert.Equal(t, "async", doc.ExecMode)
	assert.Equal(t, "4", doc.NCores)
	assert.Equal(t, "/work/tos", doc.Cube)

	require.Len(t, doc.Tasks, 3)

	create := doc.Tasks[0]
	assert.Equal(t, "create", create.Name)
	assert.Equal(t, "oph_createcontainer", create.Operator)
	assert.Equal(t, DefaultTaskType, create.Type)
	assert.Equal(t, []string{"container=work"}, create.Arguments)
	assert.Empty(t, create.Dependencies)

	importDoc := doc.Tasks[1]
	assert.Equal(t, []string{"measure=tos", "src_path=/data/tos.nc"}, importDoc.Arguments)
	assert.Equal(t, []Dependency{{Task: "create", Type: DependencyEmbedded}}, importDoc.Dependencies)
	assert.Equal(t, "abort", importDoc.OnError)

	reduce := doc.Tasks[2]
	assert.Equal(t, []Dependency{{Task: "import", Argument: "cube", Type: DependencyAll}}, reduce.Dependencies)
}

func TestDocument_ToJSON(t *testing.T) {
	w := sampleWorkflow(t)
	out, err := w.ToDocument().ToJSON()
	require.NoError(t, err)

	// Four-space indentation, engine field names, metadata omitted when empty.
	assert.Contains(t, out, `    "name": "experiment"`)
	assert.Contains(t, out, `"exec_mode": "async"`)
	assert.Contains(t, out, `"measure=tos"`)
	assert.NotContains(t, out, "sessionid")
	assert.NotContains(t, out, "counter")
}

func TestDocument_ToJSON_EmptyWorkflow(t *testing.T) {
	w, err := New("empty")
	require.NoError(t, err)
	out, err := w.ToDocument().ToJSON()
	require.NoError(t, err)

	assert.Contains(t, out, `"tasks": []`)
	assert.NotContains(t, out, "author")
}

func TestFromDocument_RoundTrip(t *testing.T) {
	w := sampleWorkflow(t)
	doc := w.ToDocument()

	rebuilt, err := FromDocument(doc)
	require.NoError(t, err)
	assert.Equal(t, doc, rebuilt.ToDocument())
}

func TestFromDocument_CounterResumes(t *testing.T) {
	w, err := New("exp")
	require.NoError(t, err)
	for i := 0; i < 2; i++ {
		_, err = w.NewTask("oph_importnc", nil, nil)
		require.NoError(t, err)
	}

	rebuilt, err := FromDocument(w.ToDocument())
	require.NoError(t, err)

	next, err := rebuilt.NewTask("oph_reduce", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "exp_3", next.Name())
}

func TestFromDocument_Nil(t *testing.T) {
	_, err := FromDocument(nil)
	require.Error(t, err)
	assert.True(t, types.IsCode(err, types.ErrConfig))
}

func TestFromDocument_EmptyName(t *testing.T) {
	_, err := FromDocument(&Document{})
	require.Error(t, err)
	assert.True(t, types.IsCode(err, types.ErrConfig))
}

func TestWorkflow_SaveLoad(t *testing.T) {
	w := sampleWorkflow(t)
	path := filepath.Join(t.TempDir(), "experiment")

	require.NoError(t, w.Save(path))

	// The extension is appended when missing.
	_, err := os.Stat(path + ".json")
	require.NoError(t, err)

	loaded, err := Load(path + ".json")
	require.NoError(t, err)
	assert.Equal(t, w.ToDocument(), loaded.ToDocument())
}

func TestWorkflow_Save_KeepsExtension(t *testing.T) {
	w := sampleWorkflow(t)
	path := filepath.Join(t.TempDir(), "experiment.json")

	require.NoError(t, w.Save(path))
	_, err := os.Stat(path)
	require.NoError(t, err)
	_, err = os.Stat(path + ".json")
	assert.True(t, os.IsNotExist(err))
}

func TestWorkflow_Save_EmptyName(t *testing.T) {
	w := sampleWorkflow(t)
	err := w.Save("")
	require.Error(t, err)
	assert.True(t, types.IsCode(err, types.ErrConfig))
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.True(t, types.IsCode(err, types.ErrNotFound))
}

func TestLoad_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, types.IsCode(err, types.ErrFormat))
}

func writeDocument(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_MissingName(t *testing.T) {
	path := writeDocument(t, `{"author": "climate-lab", "tasks": []}`)

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, types.IsCode(err, types.ErrMissingField))
}

func TestLoad_EmptyNameValue(t *testing.T) {
	path := writeDocument(t, `{"name": "", "tasks": []}`)

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, types.IsCode(err, types.ErrConfig))
}

func TestLoad_UnknownWorkflowField(t *testing.T) {
	path := writeDocument(t, `{"name": "exp", "color": "blue", "tasks": []}`)

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, types.IsCode(err, types.ErrConfig))
	assert.Contains(t, err.Error(), "color")
}

func TestLoad_UnknownTaskField(t *testing.T) {
	path := writeDocument(t, `{
		"name": "exp",
		"tasks": [
			{"name": "a", "operator": "oph_importnc", "arguments": [], "dependencies": [], "retries": "3"}
		]
	}`)

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, types.IsCode(err, types.ErrConfig))
	assert.Contains(t, err.Error(), "retries")
}

func TestLoad_DuplicateTaskName(t *testing.T) {
	path := writeDocument(t, `{
		"name": "exp",
		"tasks": [
			{"name": "a", "operator": "oph_importnc", "arguments": [], "dependencies": []},
			{"name": "a", "operator": "oph_reduce", "arguments": [], "dependencies": []}
		]
	}`)

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, types.IsCode(err, types.ErrDuplicateName))
}

func TestLoad_ForwardDependency(t *testing.T) {
	path := writeDocument(t, `{
		"name": "exp",
		"tasks": [
			{"name": "a", "operator": "oph_reduce", "arguments": [],
			 "dependencies": [{"task": "b", "type": "embedded"}]},
			{"name": "b", "operator": "oph_importnc", "arguments": [], "dependencies": []}
		]
	}`)

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, types.IsCode(err, types.ErrUnresolvedDependency))
}

func TestLoad_TasksNotAList(t *testing.T) {
	path := writeDocument(t, `{"name": "exp", "tasks": {"name": "a"}}`)

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, types.IsCode(err, types.ErrFormat))
}

func TestLoad_DefaultsTaskType(t *testing.T) {
	path := writeDocument(t, `{
		"name": "exp",
		"tasks": [
			{"name": "a", "operator": "oph_importnc", "arguments": ["measure=tos"], "dependencies": []}
		]
	}`)

	w, err := Load(path)
	require.NoError(t, err)

	task, ok := w.GetTask("a")
	require.True(t, ok)
	assert.Equal(t, DefaultTaskType, task.Type())
	assert.Equal(t, Args{{Key: "measure", Value: "tos"}}, task.Arguments())
}

func TestDocument_YAMLRoundTrip(t *testing.T) {
	doc := sampleWorkflow(t).ToDocument()

	out, err := doc.ToYAML()
	require.NoError(t, err)
	assert.Contains(t, out, "name: experiment")
	assert.Contains(t, out, "exec_mode: async")

	decoded, err := FromYAML(out)
	require.NoError(t, err)
	assert.Equal(t, doc, decoded)
}

func TestFromYAML_Invalid(t *testing.T) {
	_, err := FromYAML("name: [unclosed")
	require.Error(t, err)
	assert.True(t, types.IsCode(err, types.ErrFormat))
}

func TestFromYAML_ChecksGraph(t *testing.T) {
	_, err := FromYAML(`
name: exp
tasks:
  - name: a
    operator: oph_reduce
    type: ophidia
    dependencies:
      - task: ghost
        type: embedded
`)
	require.Error(t, err)
	assert.True(t, types.IsCode(err, types.ErrUnresolvedDependency))
}

func TestDocument_YAMLFileRoundTrip(t *testing.T) {
	doc := sampleWorkflow(t).ToDocument()
	path := filepath.Join(t.TempDir(), "experiment.yaml")

	require.NoError(t, doc.SaveYAMLFile(path))

	loaded, err := LoadYAMLFile(path)
	require.NoError(t, err)
	assert.Equal(t, doc, loaded)
}

func TestLoadYAMLFile_MissingFile(t *testing.T) {
	_, err := LoadYAMLFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, types.IsCode(err, types.ErrNotFound))
}
