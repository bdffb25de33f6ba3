package mcp

// SelfServerName is the name of the entry every rendered map carries so
// agents can call back into nexus. Discovery never reports it.
const SelfServerName = "nexus"

// ProjectEnv is the environment variable carrying the project name to the
// self server process.
const ProjectEnv = "NEXUS_PROJECT"

// SelfServer builds the self-referencing stdio entry for project.
func SelfServer(executable, project string) *Server {
	return &Server{
		Name:    SelfServerName,
		Type:    TransportStdio,
		Command: executable,
		Args:    []string{"mcp-serve"},
		Env:     map[string]string{ProjectEnv: project},
	}
}
