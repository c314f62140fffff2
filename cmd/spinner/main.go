package main

import (
	"errors"
	"os"
	"runtime"
	"time"

	"github.com/Carmen-Shannon/spinner/assets"
	"github.com/Carmen-Shannon/spinner/config"
	"github.com/Carmen-Shannon/spinner/engine"
	"github.com/Carmen-Shannon/spinner/engine/animator"
	"github.com/Carmen-Shannon/spinner/engine/audio"
	"github.com/Carmen-Shannon/spinner/engine/camera"
	"github.com/Carmen-Shannon/spinner/engine/composer"
	"github.com/Carmen-Shannon/spinner/engine/loader"
	"github.com/Carmen-Shannon/spinner/engine/renderer"
	"github.com/Carmen-Shannon/spinner/engine/renderer/shader"
	"github.com/Carmen-Shannon/spinner/engine/scene"
	"github.com/Carmen-Shannon/spinner/engine/window"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func init() {
	// GLFW and the surface must stay on the main thread.
	runtime.LockOSThread()
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	// ── Config ──────────────────────────────────────────────────────────
	cfg, err := config.Load(nil)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if !cfg.Profiling {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	// ── Window ──────────────────────────────────────────────────────────
	win, err := window.NewWindow(cfg.WindowOptions()...)
	if err != nil {
		log.Fatal().Err(err).Msg("create window")
	}

	// ── Renderer ────────────────────────────────────────────────────────
	r, err := renderer.NewRenderer(renderer.BackendTypeWGPU, win, cfg.RendererOptions()...)
	if err != nil {
		log.Fatal().Err(err).Msg("create renderer")
	}

	// ── Mesh ────────────────────────────────────────────────────────────
	l := loader.NewLoader(loader.BackendTypeGLTF)
	mesh, err := l.Load("torus", assets.MeshGLB)
	if err != nil {
		log.Fatal().Err(err).Msg("load mesh")
	}

	// ── Shaders ─────────────────────────────────────────────────────────
	vertexShader, err := shader.NewShader("spin_vert", shader.ShaderTypeVertex, assets.VertexShaderSource)
	if err != nil {
		log.Fatal().Err(err).Msg("parse vertex shader")
	}
	fragmentShader, err := shader.NewShader("spin_frag", shader.ShaderTypeFragment, assets.FragmentShaderSource)
	if err != nil {
		log.Fatal().Err(err).Msg("parse fragment shader")
	}

	// ── Scene ───────────────────────────────────────────────────────────
	state := composer.DefaultRenderState()
	sc, err := scene.NewScene(r, mesh, vertexShader, fragmentShader,
		scene.WithName("spinner"),
		scene.WithRenderState(state),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("create scene")
	}

	// ── Composer ────────────────────────────────────────────────────────
	comp := composer.NewComposer(
		composer.WithClock(animator.NewClock()),
		composer.WithAnimator(animator.NewAnimator(cfg.AnimatorOptions()...)),
		composer.WithCamera(camera.NewCamera(cfg.CameraOptions()...)),
		composer.WithTransform(cfg.ComposerTransform()),
		composer.WithLightDirection(cfg.Light.Direction),
		composer.WithRenderState(state),
		composer.WithTarget(sc),
	)

	w, h := win.Width(), win.Height()
	if !comp.Bundle(0, w, h).Frustum().IntersectsSphere(cfg.Transform.Translation, mesh.BoundingRadius()*cfg.Transform.Scale) {
		log.Warn().
			Float64("radius", float64(mesh.BoundingRadius()*cfg.Transform.Scale)).
			Msg("mesh is outside the camera frustum")
	}

	// ── Engine ──────────────────────────────────────────────────────────
	eng := engine.NewEngine(
		engine.WithEventSource(win),
		engine.WithProfiling(cfg.Profiling),
		engine.WithRenderFrameLimit(cfg.Renderer.FrameRateLimit),
		engine.WithReleaser("renderer", r.Release),
		engine.WithReleaser("scene", sc.Release),
		engine.WithFrameFunc(func(width, height int) error {
			sc.SetFramebufferSize(width, height)
			_, err := comp.Compose(width, height)
			return err
		}),
	)

	// ── Audio ───────────────────────────────────────────────────────────
	if cfg.Audio.Enabled {
		player, err := audio.NewPlayer(assets.LoopAudio, cfg.AudioOptions()...)
		switch {
		case errors.Is(err, audio.ErrUnavailable):
			log.Warn().Err(err).Msg("audio disabled")
		case err != nil:
			log.Fatal().Err(err).Msg("create audio player")
		default:
			eng.AddReleaser("audio", player.Close)
			player.Play()
		}
	}

	if err := eng.Run(); err != nil {
		log.Fatal().Err(err).Msg("render loop")
	}
	log.Info().Uint64("frames", comp.Frames()).Msg("exit")
}
