package server

import (
	"fmt"
	"math"
	"net/http"

	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/integrator"
	"github.com/df07/go-sphere-raytracer/pkg/material"
	"github.com/df07/go-sphere-raytracer/pkg/renderer"
	"github.com/df07/go-sphere-raytracer/pkg/scene"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	SphereIndex  int                    `json:"sphereIndex"`
	MaterialType string                 `json:"materialType"`
	Center       [3]float64             `json:"center"`
	Radius       float64                `json:"radius"`
	Point        [3]float64             `json:"point"`
	Normal       [3]float64             `json:"normal"`
	Distance     float64                `json:"distance"`
	Properties   map[string]interface{} `json:"properties"`
}

func toArray(v core.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

func hexColor(c core.Vec3) string {
	rgb := renderer.ToByteColor(c)
	return fmt.Sprintf("#%02x%02x%02x", rgb[0], rgb[1], rgb[2])
}

// extractMaterialInfo names a material and lists its parameters
func extractMaterialInfo(mat material.Material) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch m := mat.(type) {
	case material.Diffuse:
		properties["albedo"] = toArray(m.Albedo)
		properties["color"] = hexColor(m.Albedo)
		return "diffuse", properties

	case material.Metal:
		properties["albedo"] = toArray(m.Albedo)
		properties["color"] = hexColor(m.Albedo)
		properties["fuzz"] = m.Fuzz
		return "metal", properties

	case material.Dielectric:
		properties["refractiveIndex"] = m.RefractiveIndex
		properties["color"] = "#ffffff"
		return "dielectric", properties

	case material.ConstantColor:
		properties["color"] = hexColor(m.Color)
		return "constant", properties

	case material.FancyNormals:
		return "normals", properties

	default:
		return "unknown", properties
	}
}

// inspectPixel casts the unjittered ray through image pixel (x, y), row 0 at
// the top, and returns the index of the first sphere it hits or -1
func inspectPixel(sceneObj *scene.Scene, width, height, x, y int) (int, material.HitRecord) {
	iy := height - 1 - y
	u := float64(x) / float64(max(width-1, 1))
	v := float64(iy) / float64(max(height-1, 1))
	ray := sceneObj.Camera.GetRay(u, v)

	hit, ok := sceneObj.Spheres.Hit(ray, integrator.TMin, math.Inf(1))
	if !ok {
		return -1, hit
	}

	// SphereList reports the first sphere at the nearest t; find which one that was
	for i, sphere := range sceneObj.Spheres {
		if t, isHit := sphere.Hit(ray, integrator.TMin, math.Inf(1)); isHit && t == hit.T {
			return i, hit
		}
	}
	return -1, hit
}

// handleInspect reports which sphere a pixel sees and its material
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	query := r.URL.Query()
	pixelX, err := parseIntParam(query, "x", -1, 0, req.Width-1)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	pixelY, err := parseIntParam(query, "y", -1, 0, req.Height-1)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if pixelX < 0 || pixelY < 0 {
		writeError(w, http.StatusBadRequest, fmt.Errorf("x and y are required"))
		return
	}

	index, hit := inspectPixel(req.Scene, req.Width, req.Height, pixelX, pixelY)
	if index < 0 {
		writeJSON(w, http.StatusOK, InspectResponse{Hit: false, SphereIndex: -1})
		return
	}

	sphere := req.Scene.Spheres[index]
	materialType, properties := extractMaterialInfo(sphere.Material)
	writeJSON(w, http.StatusOK, InspectResponse{
		Hit:          true,
		SphereIndex:  index,
		MaterialType: materialType,
		Center:       toArray(sphere.Center),
		Radius:       sphere.Radius,
		Point:        toArray(hit.Point),
		Normal:       toArray(hit.Normal),
		Distance:     hit.T,
		Properties:   properties,
	})
}
