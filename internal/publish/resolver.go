package publish

import (
	"log/slog"
	"sort"

	"lookpub/internal/fileutil"
	"lookpub/internal/logging"
	"lookpub/internal/scenegraph"
	"lookpub/internal/template"
)

// Node parameters the resolver reads.
const (
	ParamSaveTo          = "saveTo"
	ParamWorkTemplate    = "work_template"
	ParamPublishTemplate = "publish_template"
)

// Resolution is the decision set for one node: every work path without a
// published counterpart, highest version first, and the suggested default.
type Resolution struct {
	Node            string
	WorkTemplate    *template.Template
	PublishTemplate *template.Template
	WorkPaths       []string
	ToPublish       string
}

// ResolveCandidates determines which versions of a node's work file are
// eligible for publishing. The node's save path is validated against the work
// template, the version field is stripped so enumeration spans the whole
// version family, and any work version whose publish counterpart already
// exists on disk is dropped. A NotEligibleError reports the empty outcomes.
func ResolveCandidates(node scenegraph.Node, registry *template.Registry, logger *slog.Logger) (*Resolution, error) {
	if logger == nil {
		logger = logging.NewNop()
	}

	savePath, err := node.Parameter(ParamSaveTo)
	if err != nil {
		return nil, Wrap(ErrConfiguration, node.Name, "accept", "read save path", err)
	}
	workName, err := node.Parameter(ParamWorkTemplate)
	if err != nil {
		return nil, Wrap(ErrConfiguration, node.Name, "accept", "read work template name", err)
	}
	workTemplate, err := registry.Get(workName)
	if err != nil {
		return nil, Wrap(ErrConfiguration, node.Name, "accept", "resolve work template", err)
	}

	fields, ok := workTemplate.ValidateAndFields(savePath)
	if !ok {
		logger.Debug("save path does not match work template",
			logging.Args(
				logging.String("node", node.Name),
				logging.String("path", savePath),
				logging.String("template", workTemplate.Name()),
			)...)
		return nil, &NotEligibleError{Node: node.Name, Reason: ReasonInvalidPath}
	}

	// Strip the version so enumeration spans every version of this family.
	family := fields.Without(template.VersionField)

	workPaths, err := workTemplate.Paths(family)
	if err != nil {
		return nil, Wrap(ErrConfiguration, node.Name, "accept", "enumerate work paths", err)
	}
	if len(workPaths) == 0 {
		logger.Debug("no generated work files",
			logging.Args(logging.String("node", node.Name))...)
		return nil, &NotEligibleError{Node: node.Name, Reason: ReasonNoWorkFiles}
	}

	publishName, err := node.Parameter(ParamPublishTemplate)
	if err != nil {
		return nil, Wrap(ErrConfiguration, node.Name, "accept", "read publish template name", err)
	}
	publishTemplate, err := registry.Get(publishName)
	if err != nil {
		return nil, Wrap(ErrConfiguration, node.Name, "accept", "resolve publish template", err)
	}
	publishPaths, err := publishTemplate.Paths(family)
	if err != nil {
		return nil, Wrap(ErrConfiguration, node.Name, "accept", "enumerate publish paths", err)
	}

	candidates := unsatisfiedWorkPaths(workTemplate, publishTemplate, workPaths, publishPaths, logger)
	if len(candidates) == 0 {
		logger.Debug("all versions published",
			logging.Args(logging.String("node", node.Name))...)
		return nil, &NotEligibleError{Node: node.Name, Reason: ReasonAllPublished}
	}

	sortByVersionDescending(workTemplate, candidates)

	return &Resolution{
		Node:            node.Name,
		WorkTemplate:    workTemplate,
		PublishTemplate: publishTemplate,
		WorkPaths:       candidates,
		ToPublish:       candidates[0],
	}, nil
}

// unsatisfiedWorkPaths keeps the work paths without a published counterpart. A
// work path is satisfied only when a publish path exists on disk whose version
// field equals the work path's version; a stale publish path from another
// version never satisfies it.
func unsatisfiedWorkPaths(workTemplate, publishTemplate *template.Template, workPaths, publishPaths []string, logger *slog.Logger) []string {
	// Field extraction is assumed costly; memoize per publish path.
	publishFields := make(map[string]template.Fields, len(publishPaths))
	fieldsFor := func(path string) (template.Fields, bool) {
		if fields, ok := publishFields[path]; ok {
			return fields, fields != nil
		}
		fields, ok := publishTemplate.ValidateAndFields(path)
		if !ok {
			publishFields[path] = nil
			return nil, false
		}
		publishFields[path] = fields
		return fields, true
	}

	var unsatisfied []string
	for _, workPath := range workPaths {
		workFields, ok := workTemplate.ValidateAndFields(workPath)
		if !ok {
			continue
		}
		workVersion, _ := workFields.Version()

		satisfied := false
		for _, publishPath := range publishPaths {
			fields, ok := fieldsFor(publishPath)
			if !ok {
				continue
			}
			version, _ := fields.Version()
			if version == workVersion && fileutil.FileExists(publishPath) {
				logger.Debug("work path already published",
					logging.Args(
						logging.String("work_path", workPath),
						logging.String("publish_path", publishPath),
					)...)
				satisfied = true
				break
			}
		}
		if !satisfied {
			unsatisfied = append(unsatisfied, workPath)
		}
	}
	return unsatisfied
}

func sortByVersionDescending(workTemplate *template.Template, paths []string) {
	versions := make(map[string]string, len(paths))
	for _, path := range paths {
		if fields, ok := workTemplate.ValidateAndFields(path); ok {
			versions[path], _ = fields.Version()
		}
	}
	sort.SliceStable(paths, func(i, j int) bool {
		vi, vj := versions[paths[i]], versions[paths[j]]
		if vi != vj {
			return template.CompareVersions(vi, vj) > 0
		}
		return paths[i] > paths[j]
	})
}
