//go:build !js_eval

package render

// NewJS is unavailable without the js_eval build tag.
func NewJS(opts ...JSOption) Renderer {
	_ = applyJSOptions(opts)
	return nil
}
