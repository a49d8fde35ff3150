// ABOUTME: Contract tests run against every storage backend
// ABOUTME: Covers layer and feature CRUD, ordering, cascades, and not-found errors

package storage

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/harper/geoedit/internal/models"
)

func mustNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func featureAt(layerID uuid.UUID, kind models.GeometryKind, at time.Time, pts ...models.Point) *models.Feature {
	f := models.NewFeature(layerID, kind, pts)
	f.CreatedAt = at
	return f
}

// testRepositoryContract exercises the Repository interface on a fresh store.
func testRepositoryContract(t *testing.T, open func(t *testing.T) Repository) {
	t.Run("CreateAndGetLayer", func(t *testing.T) {
		repo := open(t)
		layer := models.NewLayer("roads", models.KindPolyline)
		mustNoError(t, repo.CreateLayer(layer))

		got, err := repo.GetLayerByID(layer.ID)
		mustNoError(t, err)
		if got.Name != "roads" || got.Kind != models.KindPolyline || !got.Editable {
			t.Errorf("got %+v", got)
		}

		byName, err := repo.GetLayerByName("roads")
		mustNoError(t, err)
		if byName.ID != layer.ID {
			t.Errorf("expected ID %s, got %s", layer.ID, byName.ID)
		}
	})

	t.Run("ReadOnlyLayerRoundTrips", func(t *testing.T) {
		repo := open(t)
		layer := models.NewLayer("basemap", models.KindPolygon)
		layer.Editable = false
		mustNoError(t, repo.CreateLayer(layer))

		got, err := repo.GetLayerByID(layer.ID)
		mustNoError(t, err)
		if got.Editable {
			t.Error("expected read-only layer")
		}
	})

	t.Run("DuplicateLayerName", func(t *testing.T) {
		repo := open(t)
		mustNoError(t, repo.CreateLayer(models.NewLayer("parcels", models.KindPolygon)))
		err := repo.CreateLayer(models.NewLayer("parcels", models.KindPoint))
		if !errors.Is(err, ErrDuplicate) {
			t.Errorf("expected ErrDuplicate, got %v", err)
		}
	})

	t.Run("LayerNotFound", func(t *testing.T) {
		repo := open(t)
		if _, err := repo.GetLayerByID(uuid.New()); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
		if _, err := repo.GetLayerByName("nope"); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("ListLayersSortedByName", func(t *testing.T) {
		repo := open(t)
		for _, name := range []string{"wells", "buildings", "roads"} {
			mustNoError(t, repo.CreateLayer(models.NewLayer(name, models.KindPoint)))
		}
		layers, err := repo.ListLayers()
		mustNoError(t, err)
		if len(layers) != 3 {
			t.Fatalf("expected 3 layers, got %d", len(layers))
		}
		want := []string{"buildings", "roads", "wells"}
		for i, l := range layers {
			if l.Name != want[i] {
				t.Errorf("layer %d: expected %s, got %s", i, want[i], l.Name)
			}
		}
	})

	t.Run("CreateAndGetFeature", func(t *testing.T) {
		repo := open(t)
		layer := models.NewLayer("parcels", models.KindPolygon)
		mustNoError(t, repo.CreateLayer(layer))

		f := models.NewFeature(layer.ID, models.KindPolygon, []models.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10.5}})
		mustNoError(t, repo.CreateFeature(f))

		got, err := repo.GetFeature(f.ID)
		mustNoError(t, err)
		if got.LayerID != layer.ID || got.Kind != models.KindPolygon {
			t.Errorf("got %+v", got)
		}
		if len(got.Points) != 3 || got.Points[2] != (models.Point{X: 10, Y: 10.5}) {
			t.Errorf("points = %v", got.Points)
		}
	})

	t.Run("FeatureNotFound", func(t *testing.T) {
		repo := open(t)
		if _, err := repo.GetFeature(uuid.New()); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("FeatureRequiresLayer", func(t *testing.T) {
		repo := open(t)
		f := models.NewFeature(uuid.New(), models.KindPoint, []models.Point{{X: 1, Y: 1}})
		if err := repo.CreateFeature(f); err == nil {
			t.Error("expected error for feature without layer")
		}
	})

	t.Run("ListFeaturesOldestFirst", func(t *testing.T) {
		repo := open(t)
		a := models.NewLayer("a", models.KindPoint)
		b := models.NewLayer("b", models.KindPoint)
		mustNoError(t, repo.CreateLayer(a))
		mustNoError(t, repo.CreateLayer(b))

		base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
		second := featureAt(a.ID, models.KindPoint, base.Add(time.Hour), models.Point{X: 2})
		first := featureAt(a.ID, models.KindPoint, base, models.Point{X: 1})
		other := featureAt(b.ID, models.KindPoint, base.Add(30*time.Minute), models.Point{X: 3})
		for _, f := range []*models.Feature{second, first, other} {
			mustNoError(t, repo.CreateFeature(f))
		}

		got, err := repo.ListFeatures(a.ID)
		mustNoError(t, err)
		if len(got) != 2 || got[0].ID != first.ID || got[1].ID != second.ID {
			t.Errorf("unexpected layer features order: %v", got)
		}

		all, err := repo.ListAllFeatures()
		mustNoError(t, err)
		if len(all) != 3 || all[1].ID != other.ID {
			t.Errorf("unexpected all-features order: %v", all)
		}
	})

	t.Run("DeleteFeature", func(t *testing.T) {
		repo := open(t)
		layer := models.NewLayer("wells", models.KindPoint)
		mustNoError(t, repo.CreateLayer(layer))
		f := models.NewFeature(layer.ID, models.KindPoint, []models.Point{{X: 1, Y: 2}})
		mustNoError(t, repo.CreateFeature(f))

		mustNoError(t, repo.DeleteFeature(f.ID))
		if _, err := repo.GetFeature(f.ID); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound after delete, got %v", err)
		}
	})

	t.Run("DeleteLayerCascades", func(t *testing.T) {
		repo := open(t)
		layer := models.NewLayer("wells", models.KindPoint)
		mustNoError(t, repo.CreateLayer(layer))
		f := models.NewFeature(layer.ID, models.KindPoint, []models.Point{{X: 1, Y: 2}})
		mustNoError(t, repo.CreateFeature(f))

		mustNoError(t, repo.DeleteLayer(layer.ID))
		if _, err := repo.GetLayerByID(layer.ID); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected layer gone, got %v", err)
		}
		if _, err := repo.GetFeature(f.ID); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected feature to cascade, got %v", err)
		}
	})

	t.Run("Reset", func(t *testing.T) {
		repo := open(t)
		layer := models.NewLayer("wells", models.KindPoint)
		mustNoError(t, repo.CreateLayer(layer))
		mustNoError(t, repo.CreateFeature(models.NewFeature(layer.ID, models.KindPoint, []models.Point{{}})))

		mustNoError(t, repo.Reset())
		layers, err := repo.ListLayers()
		mustNoError(t, err)
		features, err := repo.ListAllFeatures()
		mustNoError(t, err)
		if len(layers) != 0 || len(features) != 0 {
			t.Errorf("expected empty store, got %d layers and %d features", len(layers), len(features))
		}
	})
}
