package publish

import (
	"context"
	"log/slog"

	"lookpub/internal/fileutil"
	"lookpub/internal/logging"
	"lookpub/internal/scan"
	"lookpub/internal/scenegraph"
	"lookpub/internal/session"
	"lookpub/internal/template"
	"lookpub/internal/view"
)

// LookFilePlugin publishes baked look files. It resolves candidate versions
// from the bake node's save path at accept time, revalidates disk state at
// validate time, and delegates the copy to the default publisher.
type LookFilePlugin struct {
	scene    *scenegraph.Scene
	registry *template.Registry
	base     *Base
	logger   *slog.Logger
}

// NewLookFilePlugin builds a look-file plugin bound to one scene document.
func NewLookFilePlugin(scene *scenegraph.Scene, registry *template.Registry, base *Base, logger *slog.Logger) *LookFilePlugin {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &LookFilePlugin{scene: scene, registry: registry, base: base, logger: logger}
}

func (p *LookFilePlugin) Name() string { return "look file publisher" }

func (p *LookFilePlugin) Description() string {
	return "Publishes baked look files to their versioned publish location."
}

func (p *LookFilePlugin) ItemFilters() []string {
	return []string{scan.TypeLookFile}
}

// Accept resolves the item's publish candidates. Items without candidates are
// rejected with a reason but remain visible so the operator sees why; resolver
// failures are real errors.
func (p *LookFilePlugin) Accept(ctx context.Context, task *Task, item scan.Item) (Acceptance, error) {
	if err := ctx.Err(); err != nil {
		return Acceptance{}, err
	}

	node, err := p.scene.Node(item.Name)
	if err != nil {
		return Acceptance{}, Wrap(ErrConfiguration, item.Name, "accept", "look up node", err)
	}

	resolution, err := ResolveCandidates(node, p.registry, p.logger)
	if err != nil {
		if ne, ok := AsNotEligible(err); ok {
			return Acceptance{Visible: true, Reason: ne.Reason}, nil
		}
		return Acceptance{}, err
	}

	task.SetSettings(session.NodeSettings{
		WorkPaths: resolution.WorkPaths,
		ToPublish: resolution.ToPublish,
	})
	return Acceptance{Accepted: true, Visible: true, Enabled: true, Checked: true}, nil
}

// Validate re-checks the selected work file against current disk state. Every
// failure carries ErrValidation plus a cause sentinel naming what went wrong.
func (p *LookFilePlugin) Validate(ctx context.Context, task *Task, item scan.Item) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	workPath, _, publishPath, err := p.destination(task, item)
	if err != nil {
		return err
	}

	if fileutil.FileExists(publishPath) {
		return Wrap(ErrValidation, item.Name, "validate", publishPath, ErrAlreadyPublished)
	}

	p.logger.Debug("validated publish candidate",
		logging.Args(
			logging.String("node", item.Name),
			logging.String("work_path", workPath),
			logging.String("publish_path", publishPath),
		)...)
	return nil
}

// Publish copies the selected work file to its publish location via the
// default publisher.
func (p *LookFilePlugin) Publish(ctx context.Context, task *Task, item scan.Item) (*session.PublishRecord, error) {
	workPath, fields, publishPath, err := p.destination(task, item)
	if err != nil {
		return nil, err
	}
	if err := p.base.PublishFile(ctx, item.Name, workPath, publishPath); err != nil {
		return nil, err
	}
	version, _ := fields.Version()
	return &session.PublishRecord{
		Node:        item.Name,
		Version:     version,
		WorkPath:    workPath,
		PublishPath: publishPath,
	}, nil
}

// SettingsView projects the task's version choices into the operator view.
func (p *LookFilePlugin) SettingsView(task *Task) view.Model {
	settings, ok := task.Settings()
	if !ok {
		return view.Model{}
	}
	return view.FromItems([]*session.Item{{
		Node:     task.Node,
		ItemType: scan.TypeLookFile,
		Status:   session.StatusEligible,
		Settings: settings,
	}})
}

// ApplySettingsView writes the operator's selection back into the task.
func (p *LookFilePlugin) ApplySettingsView(task *Task, model view.Model) error {
	settings, ok := model.SettingsFor(task.Node)
	if !ok {
		return Wrap(ErrConfiguration, task.Node, "settings", "node missing from view", nil)
	}
	if settings.ToPublish == "" {
		return Wrap(ErrConfiguration, task.Node, "settings", "no version selected", nil)
	}
	task.SetSettings(settings)
	return nil
}

// destination resolves the selected work path, its fields, and the publish
// path they map to. Shared by validate and publish so both phases see the
// same disk state rules.
func (p *LookFilePlugin) destination(task *Task, item scan.Item) (workPath string, fields template.Fields, publishPath string, err error) {
	settings, ok := task.Settings()
	if !ok || settings.ToPublish == "" {
		return "", nil, "", Wrap(ErrValidation, item.Name, "validate", "no version selected", nil)
	}
	workPath = settings.ToPublish

	node, err := p.scene.Node(item.Name)
	if err != nil {
		return "", nil, "", Wrap(ErrValidation, item.Name, "validate", "look up node", err)
	}

	workTemplate, publishTemplate, err := p.templates(node)
	if err != nil {
		return "", nil, "", err
	}

	if !fileutil.FileExists(workPath) {
		return "", nil, "", Wrap(ErrValidation, item.Name, "validate", workPath, ErrWorkFileMissing)
	}

	fields, ok = workTemplate.ValidateAndFields(workPath)
	if !ok {
		return "", nil, "", Wrap(ErrValidation, item.Name, "validate", workPath, ErrPathMismatch)
	}

	publishPath, err = publishTemplate.Apply(fields)
	if err != nil {
		return "", nil, "", Wrap(ErrValidation, item.Name, "validate", "build publish path", err)
	}
	return workPath, fields, publishPath, nil
}

func (p *LookFilePlugin) templates(node scenegraph.Node) (*template.Template, *template.Template, error) {
	workName, err := node.Parameter(ParamWorkTemplate)
	if err != nil {
		return nil, nil, Wrap(ErrValidation, node.Name, "validate", "read work template name", ErrTemplateMissing)
	}
	workTemplate, err := p.registry.Get(workName)
	if err != nil {
		return nil, nil, Wrap(ErrValidation, node.Name, "validate", workName, ErrTemplateMissing)
	}
	publishName, err := node.Parameter(ParamPublishTemplate)
	if err != nil {
		return nil, nil, Wrap(ErrValidation, node.Name, "validate", "read publish template name", ErrTemplateMissing)
	}
	publishTemplate, err := p.registry.Get(publishName)
	if err != nil {
		return nil, nil, Wrap(ErrValidation, node.Name, "validate", publishName, ErrTemplateMissing)
	}
	return workTemplate, publishTemplate, nil
}
