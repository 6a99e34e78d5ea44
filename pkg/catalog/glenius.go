package catalog

import (
	"github.com/mandelsoft/buildingblocks/pkg/geometry"
)

// shoulder reconstruction
func init() {
	register(&Catalog{
		Name:        "glenius",
		Description: "glenoid reconstruction implants",
		Blocks: []Entry{
			block("Scapula", geometry.CategoryMesh, "Scapula", "Preop::Scapula", "ScapulaReamed"),
			multiple(block("ScapulaLandmarks", geometry.CategoryPoint, "Scapula Landmarks", "Preop::Landmarks")),
			block("GlenoidPlane", geometry.CategorySurface, "Glenoid Plane", "Design::Glenoid Plane", "Head"),
			block("Head", geometry.CategoryMesh, "Head", "Head::Head", "ScapulaReamed", "BasePlate", "Screws"),
			block("ScapulaReamed", geometry.CategoryMesh, "Reamed Scapula", "Design::Reamed Scapula", "ScaffoldVolume"),
			block("BasePlate", geometry.CategoryMesh, "Base Plate", "Head::Base Plate", "ScaffoldSide", "ScaffoldBottom"),
			block("ScaffoldPrimaryBorder", geometry.CategoryCurve, "Scaffold Primary Border", "Scaffold::Primary Border", "ScaffoldSide"),
			block("ScaffoldSecondaryBorder", geometry.CategoryCurve, "Scaffold Secondary Border", "Scaffold::Secondary Border", "ScaffoldBottom"),
			block("ScaffoldSide", geometry.CategoryMesh, "Scaffold Side", "Scaffold::Side", "ScaffoldVolume"),
			block("ScaffoldBottom", geometry.CategoryMesh, "Scaffold Bottom", "Scaffold::Bottom", "ScaffoldVolume"),
			block("ScaffoldVolume", geometry.CategoryMesh, "Scaffold Volume", "Scaffold::Volume", "FinalImplant"),
			multiple(block("Screws", geometry.CategoryMesh, "Screws", "Screws::Screws", "ScrewMantles")),
			multiple(block("ScrewMantles", geometry.CategoryMesh, "Screw Mantles", "Screws::Mantles", "FinalImplant")),
			block("FinalImplant", geometry.CategoryMesh, "Final Implant", "Export::Implant"),
		},
	})
}
