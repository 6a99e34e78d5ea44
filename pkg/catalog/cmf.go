package catalog

import (
	"github.com/mandelsoft/buildingblocks/pkg/geometry"
)

// craniomaxillofacial plates and guides
func init() {
	register(&Catalog{
		Name:        "cmf",
		Description: "craniomaxillofacial plates and guides",
		Blocks: []Entry{
			block("OriginalBone", geometry.CategoryMesh, "Original Bone", "Preop::Original Bone", "PlannedBone"),
			multiple(block("OsteotomyPlanes", geometry.CategorySurface, "Osteotomy Planes", "Planning::Osteotomies", "PlannedBone")),
			block("PlannedBone", geometry.CategoryMesh, "Planned Bone", "Planning::Planned Bone", "ImplantSupport", "GuideSupport"),
			block("ImplantSupport", geometry.CategoryMesh, "Implant Support", "Implant::Support", "PlateSurface", "Screws"),
			block("PlateOutline", geometry.CategoryCurve, "Plate Outline", "Implant::Outline", "PlateSurface"),
			block("PlateSurface", geometry.CategoryMesh, "Plate Surface", "Implant::Surface", "Plate"),
			multiple(block("ScrewPositions", geometry.CategoryPoint, "Screw Positions", "Implant::Screw Positions", "Screws")),
			multiple(block("Screws", geometry.CategoryMesh, "Screws", "Implant::Screws", "PlateHoles", "GuideHoles")),
			block("PlateHoles", geometry.CategoryMesh, "Plate Holes", "Implant::Holes", "Plate"),
			block("Plate", geometry.CategoryMesh, "Plate", "Implant::Plate"),
			block("GuideSupport", geometry.CategoryMesh, "Guide Support", "Guide::Support", "Guide"),
			block("GuideHoles", geometry.CategoryMesh, "Guide Holes", "Guide::Holes", "Guide"),
			block("Guide", geometry.CategoryMesh, "Guide", "Guide::Guide"),
		},
	})
}
