package hcl

import "github.com/hashicorp/hcl/v2"

// fileRoot decodes every top-level block a sweep file may contain. Anything
// else is rejected.
type fileRoot struct {
	Deployment *deploymentBlock  `hcl:"deployment,block"`
	Dimensions []*dimensionBlock `hcl:"dimension,block"`
	Run        *runBlock         `hcl:"run,block"`
	Report     *reportBlock      `hcl:"report,block"`
	Notify     *notifyBlock      `hcl:"notify,block"`
}

type deploymentBlock struct {
	TargetDir    string   `hcl:"target_dir,optional"`
	Executable   string   `hcl:"executable"`
	Dependencies []string `hcl:"dependencies,optional"`
	DataDir      string   `hcl:"data_dir,optional"`
}

// dimensionBlock keeps options as an expression so that numbers and
// strings can both be turned into tokens.
type dimensionBlock struct {
	Name    string         `hcl:"name,label"`
	Options hcl.Expression `hcl:"options"`
}

type runBlock struct {
	Manifest string            `hcl:"manifest,optional"`
	Timeout  string            `hcl:"timeout,optional"`
	Wrapper  string            `hcl:"wrapper,optional"`
	LogDir   string            `hcl:"log_dir,optional"`
	Artifact string            `hcl:"artifact,optional"`
	Env      map[string]string `hcl:"env,optional"`
}

type reportBlock struct {
	CSV       string `hcl:"csv,optional"`
	YAML      string `hcl:"yaml,optional"`
	SQLite    string `hcl:"sqlite,optional"`
	UploadURL string `hcl:"upload_url,optional"`
}

type notifyBlock struct {
	URL       string `hcl:"url"`
	Namespace string `hcl:"namespace,optional"`
	Event     string `hcl:"event,optional"`
	Timeout   string `hcl:"timeout,optional"`
}
