package es

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/Skotchmaster/kamishop/internal/logging"
	"github.com/Skotchmaster/kamishop/internal/models"
)

type Options struct {
	URL      string
	User     string
	Password string
}

func NewClient(ctx context.Context, opts Options) (*elasticsearch.Client, error) {
	l := logging.FromContext(ctx).With("component", "es")

	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{opts.URL},
		Username:  opts.User,
		Password:  opts.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("es client: %w", err)
	}

	res, err := client.Info(client.Info.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("es info: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("es info: %s: %s", res.Status(), body)
	}

	l.Infow("es_connected", "url", opts.URL)
	return client, nil
}

// Index mirrors storefront products into one Elasticsearch index, keyed by
// product id.
type Index struct {
	Client *elasticsearch.Client
	Name   string
}

type productDoc struct {
	ID          uint   `json:"id"`
	CagName     string `json:"cag_name"`
	Name        string `json:"name"`
	Info        string `json:"info"`
	Discription string `json:"discription"`
	Tag         string `json:"tag"`
	IsActive    bool   `json:"isactive"`
}

func (ix *Index) IndexProduct(ctx context.Context, p models.Product) error {
	body, err := json.Marshal(productDoc{
		ID:          p.ID,
		CagName:     p.CagName,
		Name:        p.Name,
		Info:        p.Info,
		Discription: p.Discription,
		Tag:         p.Tag,
		IsActive:    p.IsActive,
	})
	if err != nil {
		return err
	}

	res, err := ix.Client.Index(ix.Name, bytes.NewReader(body),
		ix.Client.Index.WithContext(ctx),
		ix.Client.Index.WithDocumentID(strconv.FormatUint(uint64(p.ID), 10)),
	)
	if err != nil {
		return fmt.Errorf("es index product %d: %w", p.ID, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("es index product %d: %s", p.ID, res.Status())
	}
	return nil
}

func (ix *Index) DeleteProduct(ctx context.Context, id uint) error {
	res, err := ix.Client.Delete(ix.Name, strconv.FormatUint(uint64(id), 10), ix.Client.Delete.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("es delete product %d: %w", id, err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("es delete product %d: %s", id, res.Status())
	}
	return nil
}

// SearchProducts returns matching active product ids by relevance.
func (ix *Index) SearchProducts(ctx context.Context, query string, from, size int) (int64, []uint, error) {
	body := map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"must": map[string]any{
					"multi_match": map[string]any{
						"query":     query,
						"fields":    []string{"name^2", "info", "discription", "tag"},
						"fuzziness": "AUTO",
					},
				},
				"filter": map[string]any{
					"term": map[string]any{"isactive": true},
				},
			},
		},
		"from":    from,
		"size":    size,
		"_source": []string{"id"},
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, err
	}

	res, err := ix.Client.Search(
		ix.Client.Search.WithContext(ctx),
		ix.Client.Search.WithIndex(ix.Name),
		ix.Client.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("es search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, nil, fmt.Errorf("es search: %s", res.Status())
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source productDoc `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, fmt.Errorf("es search decode: %w", err)
	}

	ids := make([]uint, 0, len(r.Hits.Hits))
	for _, h := range r.Hits.Hits {
		ids = append(ids, h.Source.ID)
	}
	return r.Hits.Total.Value, ids, nil
}
