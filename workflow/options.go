package workflow

import "go.uber.org/zap"

// workflowAttributes lists the wire names of the engine attributes a
// workflow may carry beyond name, author and abstract.
var workflowAttributes = []string{
	"url",
	"sessionid",
	"exec_mode",
	"ncores",
	"nhost",
	"on_error",
	"on_exit",
	"run",
	"cwd",
	"cdd",
	"cube",
	"callback_url",
	"output_format",
	"host_partition",
	"nthreads",
}

func isWorkflowAttribute(name string) bool {
	for _, attr := range workflowAttributes {
		if attr == name {
			return true
		}
	}
	return false
}

// Attributes holds the engine attributes of a workflow. All values are
// strings forwarded verbatim to the engine; empty values are omitted from
// the serialized document.
type Attributes struct {
	URL           string
	SessionID     string
	ExecMode      string
	NCores        string
	NHost         string
	OnError       string
	OnExit        string
	Run           string
	CWD           string
	CDD           string
	Cube          string
	CallbackURL   string
	OutputFormat  string
	HostPartition string
	NThreads      string
}

// set assigns an attribute by wire name and reports whether the name is on
// the workflow attribute list.
func (a *Attributes) set(name, value string) bool {
	switch name {
	case "url":
		a.URL = value
	case "sessionid":
		a.SessionID = value
	case "exec_mode":
		a.ExecMode = value
	case "ncores":
		a.NCores = value
	case "nhost":
		a.NHost = value
	case "on_error":
		a.OnError = value
	case "on_exit":
		a.OnExit = value
	case "run":
		a.Run = value
	case "cwd":
		a.CWD = value
	case "cdd":
		a.CDD = value
	case "cube":
		a.Cube = value
	case "callback_url":
		a.CallbackURL = value
	case "output_format":
		a.OutputFormat = value
	case "host_partition":
		a.HostPartition = value
	case "nthreads":
		a.NThreads = value
	default:
		return false
	}
	return true
}

type workflowConfig struct {
	author   string
	abstract string
	attrs    Attributes
	named    []namedAttribute
	logger   *zap.Logger
}

// Option configures a workflow at construction time.
type Option func(*workflowConfig)

// WithAuthor sets the workflow author.
func WithAuthor(author string) Option {
	return func(c *workflowConfig) { c.author = author }
}

// WithAbstract sets the workflow abstract.
func WithAbstract(abstract string) Option {
	return func(c *workflowConfig) { c.abstract = abstract }
}

// WithURL sets the engine endpoint recorded in the document.
func WithURL(url string) Option {
	return func(c *workflowConfig) { c.attrs.URL = url }
}

// WithSessionID pins the workflow to an existing engine session.
func WithSessionID(sessionID string) Option {
	return func(c *workflowConfig) { c.attrs.SessionID = sessionID }
}

// WithExecMode sets the execution mode, typically "sync" or "async".
func WithExecMode(mode string) Option {
	return func(c *workflowConfig) { c.attrs.ExecMode = mode }
}

// WithNCores sets the number of cores requested per task.
func WithNCores(ncores string) Option {
	return func(c *workflowConfig) { c.attrs.NCores = ncores }
}

// WithNHost sets the number of hosts requested.
func WithNHost(nhost string) Option {
	return func(c *workflowConfig) { c.attrs.NHost = nhost }
}

// WithOnError sets the workflow-wide behaviour when a task fails.
func WithOnError(onError string) Option {
	return func(c *workflowConfig) { c.attrs.OnError = onError }
}

// WithOnExit sets the operation executed when the workflow finishes.
func WithOnExit(onExit string) Option {
	return func(c *workflowConfig) { c.attrs.OnExit = onExit }
}

// WithRun sets the workflow-wide run flag.
func WithRun(run string) Option {
	return func(c *workflowConfig) { c.attrs.Run = run }
}

// WithCWD sets the engine working directory.
func WithCWD(cwd string) Option {
	return func(c *workflowConfig) { c.attrs.CWD = cwd }
}

// WithCDD sets the engine current data directory.
func WithCDD(cdd string) Option {
	return func(c *workflowConfig) { c.attrs.CDD = cdd }
}

// WithCube sets the input cube identifier.
func WithCube(cube string) Option {
	return func(c *workflowConfig) { c.attrs.Cube = cube }
}

// WithCallbackURL sets the URL notified when the workflow completes.
func WithCallbackURL(url string) Option {
	return func(c *workflowConfig) { c.attrs.CallbackURL = url }
}

// WithOutputFormat sets the response format requested from the engine.
func WithOutputFormat(format string) Option {
	return func(c *workflowConfig) { c.attrs.OutputFormat = format }
}

// WithHostPartition sets the host partition the workflow runs on.
func WithHostPartition(partition string) Option {
	return func(c *workflowConfig) { c.attrs.HostPartition = partition }
}

// WithNThreads sets the number of threads requested per task.
func WithNThreads(nthreads string) Option {
	return func(c *workflowConfig) { c.attrs.NThreads = nthreads }
}

// WithAttribute sets an engine attribute by its wire name. Names outside the
// workflow attribute list fail New with a CONFIG error.
func WithAttribute(name, value string) Option {
	return func(c *workflowConfig) {
		c.named = append(c.named, namedAttribute{name: name, value: value})
	}
}

// WithLogger attaches a logger for attachment and serialization events. The
// default is a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *workflowConfig) { c.logger = logger }
}
