package workflow

import (
	"encoding/json"
	"os"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/ophflow/ophflow/types"
)

// documentExtension is appended to save targets that do not carry it.
const documentExtension = ".json"

// Document is the serialized form of a workflow, matching the engine's JSON
// contract field for field. Empty metadata is omitted; the task list, each
// argument list and each dependency list are always present, if only as
// empty lists. The naming counter of the workflow is internal and never
// serialized.
type Document struct {
	Name          string         `json:"name" yaml:"name"`
	Author        string         `json:"author,omitempty" yaml:"author,omitempty"`
	Abstract      string         `json:"abstract,omitempty" yaml:"abstract,omitempty"`
	URL           string         `json:"url,omitempty" yaml:"url,omitempty"`
	SessionID     string         `json:"sessionid,omitempty" yaml:"sessionid,omitempty"`
	ExecMode      string         `json:"exec_mode,omitempty" yaml:"exec_mode,omitempty"`
	NCores        string         `json:"ncores,omitempty" yaml:"ncores,omitempty"`
	NHost         string         `json:"nhost,omitempty" yaml:"nhost,omitempty"`
	OnError       string         `json:"on_error,omitempty" yaml:"on_error,omitempty"`
	OnExit        string         `json:"on_exit,omitempty" yaml:"on_exit,omitempty"`
	Run           string         `json:"run,omitempty" yaml:"run,omitempty"`
	CWD           string         `json:"cwd,omitempty" yaml:"cwd,omitempty"`
	CDD           string         `json:"cdd,omitempty" yaml:"cdd,omitempty"`
	Cube          string         `json:"cube,omitempty" yaml:"cube,omitempty"`
	CallbackURL   string         `json:"callback_url,omitempty" yaml:"callback_url,omitempty"`
	OutputFormat  string         `json:"output_format,omitempty" yaml:"output_format,omitempty"`
	HostPartition string         `json:"host_partition,omitempty" yaml:"host_partition,omitempty"`
	NThreads      string         `json:"nthreads,omitempty" yaml:"nthreads,omitempty"`
	Tasks         []TaskDocument `json:"tasks" yaml:"tasks"`
}

// TaskDocument is the serialized form of a single task.
type TaskDocument struct {
	Name         string       `json:"name" yaml:"name"`
	Operator     string       `json:"operator" yaml:"operator"`
	Type         string       `json:"type" yaml:"type"`
	Arguments    []string     `json:"arguments" yaml:"arguments"`
	Dependencies []Dependency `json:"dependencies" yaml:"dependencies"`
	Run          string       `json:"run,omitempty" yaml:"run,omitempty"`
	OnExit       string       `json:"on_exit,omitempty" yaml:"on_exit,omitempty"`
	OnError      string       `json:"on_error,omitempty" yaml:"on_error,omitempty"`
}

// ToDocument converts the workflow into its serializable form. The document
// is detached: changing it does not affect the workflow.
func (w *Workflow) ToDocument() *Document {
	doc := &Document{
		Name:          w.name,
		Author:        w.author,
		Abstract:      w.abstract,
		URL:           w.attrs.URL,
		SessionID:     w.attrs.SessionID,
		ExecMode:      w.attrs.ExecMode,
		NCores:        w.attrs.NCores,
		NHost:         w.attrs.NHost,
		OnError:       w.attrs.OnError,
		OnExit:        w.attrs.OnExit,
		Run:           w.attrs.Run,
		CWD:           w.attrs.CWD,
		CDD:           w.attrs.CDD,
		Cube:          w.attrs.Cube,
		CallbackURL:   w.attrs.CallbackURL,
		OutputFormat:  w.attrs.OutputFormat,
		HostPartition: w.attrs.HostPartition,
		NThreads:      w.attrs.NThreads,
		Tasks:         make([]TaskDocument, 0, len(w.tasks)),
	}
	for _, t := range w.tasks {
		doc.Tasks = append(doc.Tasks, TaskDocument{
			Name:         t.name,
			Operator:     t.operator,
			Type:         t.taskType,
			Arguments:    t.FlatArguments(),
			Dependencies: t.Dependencies(),
			Run:          t.run,
			OnExit:       t.onExit,
			OnError:      t.onError,
		})
	}
	return doc
}

// FromDocument rebuilds a workflow from its serialized form. Every task goes
// back in through AddTask in document order, so name uniqueness, dependency
// resolution and the naming counter behave exactly as they would have when
// the workflow was first built.
func FromDocument(doc *Document) (*Workflow, error) {
	if doc == nil {
		return nil, types.NewError(types.ErrConfig, "document is required")
	}
	w, err := New(doc.Name)
	if err != nil {
		return nil, err
	}
	w.author = doc.Author
	w.abstract = doc.Abstract
	w.attrs = Attributes{
		URL:           doc.URL,
		SessionID:     doc.SessionID,
		ExecMode:      doc.ExecMode,
		NCores:        doc.NCores,
		NHost:         doc.NHost,
		OnError:       doc.OnError,
		OnExit:        doc.OnExit,
		Run:           doc.Run,
		CWD:           doc.CWD,
		CDD:           doc.CDD,
		Cube:          doc.Cube,
		CallbackURL:   doc.CallbackURL,
		OutputFormat:  doc.OutputFormat,
		HostPartition: doc.HostPartition,
		NThreads:      doc.NThreads,
	}
	for _, td := range doc.Tasks {
		t, err := NewTask(td.Operator, UnflattenArgs(td.Arguments),
			WithTaskName(td.Name),
			WithTaskType(td.Type),
			WithTaskRun(td.Run),
			WithTaskOnExit(td.OnExit),
			WithTaskOnError(td.OnError))
		if err != nil {
			return nil, err
		}
		for _, dep := range td.Dependencies {
			t.CopyDependency(dep)
		}
		if err := w.AddTask(t); err != nil {
			return nil, err
		}
	}
	return w, nil
}

// ToJSON renders the document as indented JSON, the exact form Save writes.
func (d *Document) ToJSON() (string, error) {
	data, err := json.MarshalIndent(d, "", "    ")
	if err != nil {
		return "", types.NewError(types.ErrFormat, "encode document as JSON").WithCause(err)
	}
	return string(data), nil
}

// FromJSON parses a serialized document. Beyond JSON syntax it checks the
// field inventory: the name field must be present, and workflow and task
// objects may only carry fields of the engine contract.
func FromJSON(jsonStr string) (*Document, error) {
	data := []byte(jsonStr)
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, types.NewError(types.ErrFormat, "document is not a JSON object").WithCause(err)
	}
	if _, ok := raw["name"]; !ok {
		return nil, types.NewError(types.ErrMissingField, "document has no name field")
	}
	for key := range raw {
		if !isDocumentKey(key) {
			return nil, types.Errorf(types.ErrConfig, "unknown workflow field %q", key)
		}
	}
	if tasksRaw, ok := raw["tasks"]; ok {
		var taskMaps []map[string]json.RawMessage
		if err := json.Unmarshal(tasksRaw, &taskMaps); err != nil {
			return nil, types.NewError(types.ErrFormat, "tasks must be a list of task objects").WithCause(err)
		}
		for i, tm := range taskMaps {
			for key := range tm {
				if !isTaskDocumentKey(key) {
					return nil, types.Errorf(types.ErrConfig, "unknown field %q in task %d", key, i)
				}
			}
		}
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, types.NewError(types.ErrFormat, "decode document").WithCause(err)
	}
	return &doc, nil
}

// ToYAML renders the document as YAML with the same field names as the JSON
// form.
func (d *Document) ToYAML() (string, error) {
	data, err := yaml.Marshal(d)
	if err != nil {
		return "", types.NewError(types.ErrFormat, "encode document as YAML").WithCause(err)
	}
	return string(data), nil
}

// FromYAML parses a YAML document and validates its task graph.
func FromYAML(yamlStr string) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal([]byte(yamlStr), &doc); err != nil {
		return nil, types.NewError(types.ErrFormat, "document is not valid YAML").WithCause(err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// isDocumentKey reports whether key belongs to the workflow level of the
// engine contract.
func isDocumentKey(key string) bool {
	switch key {
	case "name", "author", "abstract", "tasks":
		return true
	}
	return isWorkflowAttribute(key)
}

// isTaskDocumentKey reports whether key belongs to the task level of the
// engine contract.
func isTaskDocumentKey(key string) bool {
	switch key {
	case "name", "operator", "type", "arguments", "dependencies":
		return true
	}
	return isTaskAttribute(key)
}

// Save writes the workflow document as indented JSON, appending the .json
// extension when name does not already end in it.
func (w *Workflow) Save(name string) error {
	if name == "" {
		return types.NewError(types.ErrConfig, "file name is required")
	}
	if !strings.HasSuffix(name, documentExtension) {
		name += documentExtension
	}
	out, err := w.ToDocument().ToJSON()
	if err != nil {
		return err
	}
	if err := os.WriteFile(name, []byte(out), 0644); err != nil {
		return types.Errorf(types.ErrConfig, "write document %s", name).WithCause(err)
	}
	w.logger.Info("workflow saved",
		zap.String("workflow", w.name),
		zap.String("path", name),
		zap.Int("tasks", len(w.tasks)))
	return nil
}

// Load reads a JSON document from disk and rebuilds the workflow. A missing
// file maps to a NOT_FOUND error, invalid JSON to a FORMAT error, an absent
// name field to a MISSING_FIELD error; graph violations surface through the
// same errors AddTask reports.
func Load(path string) (*Workflow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, types.Errorf(types.ErrNotFound, "document %s does not exist", path).WithCause(err)
		}
		return nil, types.Errorf(types.ErrNotFound, "read document %s", path).WithCause(err)
	}
	doc, err := FromJSON(string(data))
	if err != nil {
		return nil, err
	}
	return FromDocument(doc)
}

// SaveYAMLFile writes the document as YAML.
func (d *Document) SaveYAMLFile(path string) error {
	out, err := d.ToYAML()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(out), 0644); err != nil {
		return types.Errorf(types.ErrConfig, "write document %s", path).WithCause(err)
	}
	return nil
}

// LoadYAMLFile reads a YAML document.
func LoadYAMLFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, types.Errorf(types.ErrNotFound, "document %s does not exist", path).WithCause(err)
		}
		return nil, types.Errorf(types.ErrNotFound, "read document %s", path).WithCause(err)
	}
	return FromYAML(string(data))
}
