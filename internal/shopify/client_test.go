package shopify

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petebuzzell-ad/rudis-documentation/internal/config"
)

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(config.ShopifyConfig{
		Store:       "rudis.myshopify.com",
		AccessToken: "test-token",
		APIVersion:  "2024-01",
	})
	client.baseURL = server.URL
	return client
}

func TestResolvePublicationByName(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/admin/api/2024-01/publications.json", r.URL.Path)
		assert.Equal(t, "test-token", r.Header.Get("X-Shopify-Access-Token"))
		fmt.Fprint(w, `{"publications":[
			{"id":111,"name":"Online Store"},
			{"id":222,"name":"Google & YouTube"}
		]}`)
	}))

	id, err := client.ResolvePublication(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "222", id)
}

func TestResolvePublicationConfiguredOverride(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no API call expected when the publication ID is configured")
	}))
	client.publicationID = "999"

	id, err := client.ResolvePublication(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "999", id)
}

func TestResolvePublicationNotFound(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"publications":[{"id":111,"name":"Online Store"}]}`)
	}))

	_, err := client.ResolvePublication(context.Background())
	assert.ErrorIs(t, err, ErrPublicationNotFound)
}

func TestProductsPagination(t *testing.T) {
	var server *httptest.Server
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "250", r.URL.Query().Get("limit"))
		assert.Equal(t, "id,handle,title", r.URL.Query().Get("fields"))

		switch r.URL.Query().Get("page_info") {
		case "":
			w.Header().Set("Link", fmt.Sprintf(`<%s/admin/api/2024-01/products.json?limit=250&page_info=cursor2>; rel="next"`, server.URL))
			fmt.Fprint(w, `{"products":[{"id":1,"handle":"one","title":"One"}]}`)
		case "cursor2":
			fmt.Fprint(w, `{"products":[{"id":2,"handle":"two","title":"Two"}]}`)
		default:
			t.Fatalf("unexpected page_info %q", r.URL.Query().Get("page_info"))
		}
	})
	server = httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(config.ShopifyConfig{Store: "x", AccessToken: "t", APIVersion: "2024-01"})
	client.baseURL = server.URL

	products, err := client.Products(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "one", products[0].Handle)
	assert.Equal(t, "two", products[1].Handle)
}

func TestNextPageInfo(t *testing.T) {
	link := `<https://x/admin/api/2024-01/products.json?page_info=abc>; rel="previous", ` +
		`<https://x/admin/api/2024-01/products.json?page_info=def&limit=250>; rel="next"`
	assert.Equal(t, "def", nextPageInfo(link))
	assert.Equal(t, "", nextPageInfo(`<https://x/p.json?page_info=abc>; rel="previous"`))
	assert.Equal(t, "", nextPageInfo(""))
}

func TestUnpublish(t *testing.T) {
	deleted := false
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet:
			assert.Equal(t, "42", r.URL.Query().Get("product_id"))
			fmt.Fprint(w, `{"product_publications":[{"id":777}]}`)
		case r.Method == http.MethodDelete:
			assert.Equal(t, "/admin/api/2024-01/publications/222/product_publications/777.json", r.URL.Path)
			deleted = true
			fmt.Fprint(w, `{}`)
		default:
			t.Fatalf("unexpected %s %s", r.Method, r.URL.Path)
		}
	}))

	removed, err := client.Unpublish(context.Background(), "222", "42")
	require.NoError(t, err)
	assert.True(t, removed)
	assert.True(t, deleted)
}

func TestUnpublishNotPublished(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method, "nothing should be deleted for an unpublished product")
		fmt.Fprint(w, `{"product_publications":[]}`)
	}))

	removed, err := client.Unpublish(context.Background(), "222", "42")
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestPublish(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/admin/api/2024-01/publications/222/product_publications.json", r.URL.Path)
		fmt.Fprint(w, `{}`)
	}))

	err := client.Publish(context.Background(), "222", "42")
	require.NoError(t, err)
}

func TestProductMetafield(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/admin/api/2024-01/products/42/metafields.json", r.URL.Path)
		assert.Equal(t, MetafieldNamespace, r.URL.Query().Get("namespace"))
		assert.Equal(t, MetafieldKey, r.URL.Query().Get("key"))
		fmt.Fprint(w, `{"metafields":[{"value":"true"}]}`)
	}))

	value, err := client.ProductMetafield(context.Background(), "42")
	require.NoError(t, err)
	require.NotNil(t, value)
	assert.True(t, *value)
}

func TestProductMetafieldAbsent(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"metafields":[]}`)
	}))

	value, err := client.ProductMetafield(context.Background(), "42")
	require.NoError(t, err)
	assert.Nil(t, value)
}

func TestErrorResponse(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"errors":"Invalid API key"}`)
	}))

	_, err := client.Products(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
	assert.Contains(t, err.Error(), "Invalid API key")
}
