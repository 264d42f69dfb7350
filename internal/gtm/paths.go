// Package gtm holds helpers shared by the Tag Manager commands: relative
// API path construction for the v2 resource hierarchy and request body
// loading for --file flags.
package gtm

import "errors"

// Scope identifies where in the account/container/workspace hierarchy a
// command operates. The IDs arrive through the --account, --container and
// --workspace flags; resource IDs for get-style commands are positional
// arguments and are passed to the child path builders directly.
type Scope struct {
	AccountID   string
	ContainerID string
	WorkspaceID string
}

// Missing-scope errors name the flag that supplies the ID.
var (
	ErrAccountRequired   = errors.New("an account ID is required (--account)")
	ErrContainerRequired = errors.New("a container ID is required (--container)")
	ErrWorkspaceRequired = errors.New("a workspace ID is required (--workspace)")
)

// Account returns "accounts/{accountId}".
func (s Scope) Account() (string, error) {
	if s.AccountID == "" {
		return "", ErrAccountRequired
	}
	return "accounts/" + s.AccountID, nil
}

// Container returns "accounts/{accountId}/containers/{containerId}".
func (s Scope) Container() (string, error) {
	account, err := s.Account()
	if err != nil {
		return "", err
	}
	if s.ContainerID == "" {
		return "", ErrContainerRequired
	}
	return account + "/containers/" + s.ContainerID, nil
}

// Workspace returns the workspace path beneath the container.
func (s Scope) Workspace() (string, error) {
	container, err := s.Container()
	if err != nil {
		return "", err
	}
	if s.WorkspaceID == "" {
		return "", ErrWorkspaceRequired
	}
	return container + "/workspaces/" + s.WorkspaceID, nil
}

// accountChild builds the path of a resource directly beneath the account.
func (s Scope) accountChild(collection, id string) (string, error) {
	account, err := s.Account()
	if err != nil {
		return "", err
	}
	return account + "/" + collection + "/" + id, nil
}

// containerChild builds the path of a resource directly beneath the
// container, such as a version or an environment.
func (s Scope) containerChild(collection, id string) (string, error) {
	container, err := s.Container()
	if err != nil {
		return "", err
	}
	return container + "/" + collection + "/" + id, nil
}

// workspaceChild builds the path of a resource beneath the workspace.
func (s Scope) workspaceChild(collection, id string) (string, error) {
	workspace, err := s.Workspace()
	if err != nil {
		return "", err
	}
	return workspace + "/" + collection + "/" + id, nil
}

// Permission returns the path of a user permission on the account.
func (s Scope) Permission(id string) (string, error) {
	return s.accountChild("user_permissions", id)
}

// Version returns the path of a container version.
func (s Scope) Version(id string) (string, error) {
	return s.containerChild("versions", id)
}

// Environment returns the path of a container environment.
func (s Scope) Environment(id string) (string, error) {
	return s.containerChild("environments", id)
}

// Destination returns the path of a Google tag destination link.
func (s Scope) Destination(id string) (string, error) {
	return s.containerChild("destinations", id)
}

// Tag returns the path of a tag in the workspace.
func (s Scope) Tag(id string) (string, error) {
	return s.workspaceChild("tags", id)
}

// Trigger returns the path of a trigger in the workspace.
func (s Scope) Trigger(id string) (string, error) {
	return s.workspaceChild("triggers", id)
}

// Variable returns the path of a user-defined variable in the workspace.
func (s Scope) Variable(id string) (string, error) {
	return s.workspaceChild("variables", id)
}

// Folder returns the path of a folder in the workspace.
func (s Scope) Folder(id string) (string, error) {
	return s.workspaceChild("folders", id)
}

// Template returns the path of a custom template in the workspace.
func (s Scope) Template(id string) (string, error) {
	return s.workspaceChild("templates", id)
}

// Zone returns the path of a zone in the workspace.
func (s Scope) Zone(id string) (string, error) {
	return s.workspaceChild("zones", id)
}

// Client returns the path of a server-side client in the workspace.
func (s Scope) Client(id string) (string, error) {
	return s.workspaceChild("clients", id)
}

// Transformation returns the path of a transformation in the workspace.
func (s Scope) Transformation(id string) (string, error) {
	return s.workspaceChild("transformations", id)
}

// BuiltInVariables returns the built-in variables collection path, the
// target of enable and disable calls.
func (s Scope) BuiltInVariables() (string, error) {
	workspace, err := s.Workspace()
	if err != nil {
		return "", err
	}
	return workspace + "/built_in_variables", nil
}
