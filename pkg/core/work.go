package core

import (
	stderrors "errors"
	"time"

	"github.com/go-drift/fiber/pkg/errors"
)

// performUnitOfWork runs the begin step for fiber and returns the next
// fiber in depth-first pre-order, or nil when the tree is exhausted. If a
// setter restarted the pass during the unit, fiber belongs to the
// abandoned pass and nil is returned without touching the new one.
func (r *Root) performUnitOfWork(fiber *Fiber) (*Fiber, error) {
	gen := r.generation
	var err error
	if fiber.IsComponent() {
		err = r.updateFunctionComponent(fiber)
	} else {
		err = r.updateHostComponent(fiber)
	}
	if r.generation != gen {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	r.units++

	if fiber.Child != nil {
		return fiber.Child, nil
	}
	for next := fiber; next != nil; next = next.Return {
		if next.Sibling != nil {
			return next.Sibling, nil
		}
	}
	return nil, nil
}

func (r *Root) updateFunctionComponent(fiber *Fiber) error {
	component := fiber.Type.(*Component)
	var base *hookCell
	if fiber.Alternate != nil {
		base = fiber.Alternate.hooks
	}

	gen := r.generation
	for attempt := 0; ; attempt++ {
		ctx := newBuildContext(r, fiber, base)
		child, err := r.safeRender(component, ctx, fiber.Props)
		if r.generation != gen {
			// Another component's state changed; its children must not
			// reach the restarted pass's deletions.
			return nil
		}
		if err != nil {
			return err
		}
		if err := ctx.finish(); err != nil {
			return &errors.FiberError{
				Op:    "core.updateFunctionComponent",
				Kind:  errors.KindHook,
				Fiber: fiber.String(),
				Err:   err,
			}
		}
		if !ctx.rerender {
			r.reconcileChildren(fiber, []*Element{child})
			return nil
		}
		if attempt >= maxRenderRestarts {
			return &errors.FiberError{
				Op:    "core.updateFunctionComponent",
				Kind:  errors.KindScheduler,
				Fiber: fiber.String(),
				Err:   errTooManyRestarts,
			}
		}
		base = fiber.hooks
	}
}

// safeRender evaluates a component with panic recovery. A panic carrying
// a HookError is reported as a hook violation; any other panic becomes a
// BuildError.
func (r *Root) safeRender(c *Component, ctx *BuildContext, props Props) (child *Element, err error) {
	r.rendering = ctx
	defer func() {
		r.rendering = nil
		rec := recover()
		if rec == nil {
			return
		}
		ctx.done = true
		if hookErr, ok := rec.(*errors.HookError); ok {
			err = &errors.FiberError{
				Op:         "core.updateFunctionComponent",
				Kind:       errors.KindHook,
				Fiber:      TypeName(c),
				Err:        hookErr,
				StackTrace: errors.CaptureStack(),
			}
			return
		}
		buildErr := &errors.BuildError{
			Component:  TypeName(c),
			Recovered:  rec,
			StackTrace: errors.CaptureStack(),
			Timestamp:  time.Now(),
		}
		if e, ok := rec.(error); ok {
			buildErr.Err = e
		}
		err = &errors.FiberError{
			Op:    "core.updateFunctionComponent",
			Kind:  errors.KindBuild,
			Fiber: TypeName(c),
			Err:   buildErr,
		}
	}()
	if c.Render == nil {
		return nil, nil
	}
	return c.Render(ctx, props), nil
}

func (r *Root) updateHostComponent(fiber *Fiber) error {
	if fiber.Node == nil && !fiber.IsRoot() {
		node, err := r.createNode(fiber)
		if err != nil {
			return err
		}
		fiber.Node = node
	}
	r.reconcileChildren(fiber, fiber.Props.Children())
	return nil
}

// createNode creates the host node for fiber and syncs all its props
// against an empty previous set.
func (r *Root) createNode(fiber *Fiber) (Node, error) {
	var (
		node Node
		err  error
		op   = "CreateHostNode"
		tag  = TypeName(fiber.Type)
	)
	if fiber.Type == TextTag {
		op = "CreateTextNode"
		node, err = r.renderer.CreateTextNode()
	} else {
		node, err = r.renderer.CreateHostNode(fiber.Type.(Tag))
	}
	if err == nil && node == nil {
		err = stderrors.New("renderer returned a nil node")
	}
	if err != nil {
		return nil, hostFailure("core.createNode", op, tag, fiber, err)
	}
	if err := r.renderer.PatchNode(node, Props{}, fiber.Props); err != nil {
		return nil, hostFailure("core.createNode", "PatchNode", tag, fiber, err)
	}
	return node, nil
}

func hostFailure(op, hostOp, tag string, fiber *Fiber, err error) error {
	return &errors.FiberError{
		Op:    op,
		Kind:  errors.KindHost,
		Fiber: fiber.String(),
		Err:   &errors.HostError{Op: hostOp, Tag: tag, Err: err},
	}
}
