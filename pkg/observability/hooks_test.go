package observability

import (
	"context"
	"testing"
	"time"
)

type testPipelineHooks struct{ NoopPipelineHooks }

type testLayoutHooks struct {
	NoopLayoutHooks
	fallbacks []string
	clamps    []string
}

func (h *testLayoutHooks) OnTemplateFallback(_ context.Context, templateID string) {
	h.fallbacks = append(h.fallbacks, templateID)
}

func (h *testLayoutHooks) OnColumnClamped(_ context.Context, sectionID string, hinted, clamped int) {
	h.clamps = append(h.clamps, sectionID)
}

type testCacheHooks struct{ NoopCacheHooks }

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	p := NoopPipelineHooks{}
	p.OnGenerateStart(ctx, "openai", "gpt-4o-mini")
	p.OnGenerateComplete(ctx, "openai", "gpt-4o-mini", 4, time.Second, nil)
	p.OnLayoutStart(ctx, "T1", 4)
	p.OnLayoutComplete(ctx, "T1", time.Second, nil)
	p.OnRenderStart(ctx, []string{"svg"})
	p.OnRenderComplete(ctx, []string{"svg"}, time.Second, nil)

	l := NoopLayoutHooks{}
	l.OnTemplateFallback(ctx, "T9")
	l.OnColumnClamped(ctx, "sec1", 99, 0)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "layout")
	c.OnCacheMiss(ctx, "artifact")
	c.OnCacheSet(ctx, "generate", 1024)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Pipeline() should return NoopPipelineHooks by default")
	}
	if _, ok := Layout().(NoopLayoutHooks); !ok {
		t.Error("Layout() should return NoopLayoutHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}

	customPipeline := &testPipelineHooks{}
	SetPipelineHooks(customPipeline)
	if Pipeline() != customPipeline {
		t.Error("SetPipelineHooks should set custom hooks")
	}

	customLayout := &testLayoutHooks{}
	SetLayoutHooks(customLayout)
	if Layout() != customLayout {
		t.Error("SetLayoutHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}
}

func TestSetNilKeepsExisting(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	custom := &testLayoutHooks{}
	SetLayoutHooks(custom)
	SetLayoutHooks(nil)

	if Layout() != custom {
		t.Error("SetLayoutHooks(nil) should keep existing hooks")
	}
}

func TestLayoutHooksReceiveEvents(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	hooks := &testLayoutHooks{}
	SetLayoutHooks(hooks)

	ctx := context.Background()
	Layout().OnTemplateFallback(ctx, "T7")
	Layout().OnColumnClamped(ctx, "kpi_1", 99, 0)

	if len(hooks.fallbacks) != 1 || hooks.fallbacks[0] != "T7" {
		t.Errorf("fallbacks = %v, want [T7]", hooks.fallbacks)
	}
	if len(hooks.clamps) != 1 || hooks.clamps[0] != "kpi_1" {
		t.Errorf("clamps = %v, want [kpi_1]", hooks.clamps)
	}
}
