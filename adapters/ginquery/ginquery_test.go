package ginquery

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/goliatone/go-querystate/codec"
	"github.com/goliatone/go-querystate/pagination"
	"github.com/goliatone/go-querystate/pkg/state"
)

func newRouter(opts ...Option) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware(opts...))
	return r
}

func TestStoreReadsRequestQuery(t *testing.T) {
	r := newRouter()
	r.GET("/items", func(c *gin.Context) {
		p := pagination.New(Store(c))
		s, err := p.State(c.Request.Context())
		if err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"limit": s.Limit(), "offset": s.Offset()})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/items?page=3&pageSize=10", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", w.Code)
	}
	if body := w.Body.String(); body != `{"limit":10,"offset":20}` {
		t.Fatalf("unexpected body %s", body)
	}
}

func TestCommitRedirectStatus(t *testing.T) {
	cases := []struct {
		name   string
		opts   []state.WriteOption
		status int
	}{
		{name: "replace", status: http.StatusFound},
		{name: "push", opts: []state.WriteOption{state.Push()}, status: http.StatusSeeOther},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newRouter()
			r.GET("/items", func(c *gin.Context) {
				p := pagination.New(Store(c))
				if err := p.ChangePageSize(c.Request.Context(), 50, tc.opts...); err != nil {
					c.Status(http.StatusInternalServerError)
					return
				}
				Commit(c)
			})

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/items?page=3&pageSize=20", nil))
			if w.Code != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, w.Code)
			}
			if loc := w.Header().Get("Location"); loc != "/items?page=1&pageSize=50" {
				t.Fatalf("unexpected location %q", loc)
			}
		})
	}
}

func TestCommitKeepsPushAcrossLaterReplace(t *testing.T) {
	r := newRouter()
	r.GET("/items", func(c *gin.Context) {
		p := pagination.New(Store(c))
		ctx := c.Request.Context()
		if err := p.ChangePageSize(ctx, 50, state.Push()); err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		if err := p.ChangePageSize(ctx, 10, state.Replace()); err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		Commit(c)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/items?page=3&pageSize=20", nil))
	if w.Code != http.StatusSeeOther {
		t.Fatalf("expected see other, got %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/items?page=1&pageSize=10" {
		t.Fatalf("unexpected location %q", loc)
	}
}

func TestCommitWithoutChangesDoesNothing(t *testing.T) {
	r := newRouter()
	r.GET("/items", func(c *gin.Context) {
		if Commit(c) {
			return
		}
		c.String(http.StatusOK, "ok")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/items?page=2", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected plain response, got %d", w.Code)
	}
}

func TestAutoCommitFlushesBatches(t *testing.T) {
	r := newRouter(WithAutoCommit(), WithStoreOptions(state.WithNullToken("~")))
	r.GET("/items", func(c *gin.Context) {
		store := Store(c)
		schema := codec.Schema{
			"search": codec.Erase(codec.NullableString()),
			"page":   codec.Erase(codec.Integer()),
		}
		ctx := c.Request.Context()
		_ = store.Set(ctx, schema, codec.Snapshot{"search": codec.Null[any]()}, state.Batch())
		_ = store.Set(ctx, schema, codec.Snapshot{"page": codec.Missing[any]()}, state.Batch(), state.Push())
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/items?page=4&search=x", nil))
	if w.Code != http.StatusSeeOther {
		t.Fatalf("expected see other, got %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/items?search=~" {
		t.Fatalf("unexpected location %q", loc)
	}
}

func TestStoreOutsideMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if Store(c) != nil || Store(nil) != nil {
		t.Fatalf("expected nil store without middleware")
	}
}
