package catalog

import (
	"github.com/mandelsoft/buildingblocks/pkg/geometry"
)

// hip cup reconstruction
func init() {
	register(&Catalog{
		Name:        "amace",
		Description: "acetabular cup implants",
		Blocks: []Entry{
			block("DefectPelvis", geometry.CategoryMesh, "Defect Pelvis", "Preop::Defect Pelvis", "DesignPelvis"),
			multiple(block("PelvisLandmarks", geometry.CategoryPoint, "Pelvis Landmarks", "Preop::Landmarks")),
			block("DesignPelvis", geometry.CategoryMesh, "Design Pelvis", "Design::Design Pelvis", "CupRbv", "ReamedPelvis"),
			block("Cup", geometry.CategoryMesh, "Cup", "Cup::Cup", "CupStuds", "CupPorousLayer", "CupRbv", "Screws", "SkirtGuide"),
			block("CupStuds", geometry.CategoryMesh, "Cup Studs", "Cup::Studs", "FinalImplant"),
			block("CupPorousLayer", geometry.CategoryMesh, "Cup Porous Layer", "Cup::Porous Layer", "FinalImplant"),
			block("CupRbv", geometry.CategoryMesh, "Cup Reaming Volume", "Cup::Reaming Volume", "ReamedPelvis"),
			block("ReamedPelvis", geometry.CategoryMesh, "Reamed Pelvis", "Design::Reamed Pelvis", "ScaffoldTop"),
			block("SkirtBoneCurve", geometry.CategoryCurve, "Skirt Bone Curve", "Skirt::Bone Curve", "SkirtMesh"),
			block("SkirtCupCurve", geometry.CategoryCurve, "Skirt Cup Curve", "Skirt::Cup Curve", "SkirtMesh"),
			block("SkirtMesh", geometry.CategoryMesh, "Skirt Mesh", "Skirt::Mesh", "ScaffoldVolume", "SkirtGuide"),
			block("SkirtGuide", geometry.CategoryMesh, "Skirt Guide", "Skirt::Guide"),
			block("ScaffoldTop", geometry.CategorySurface, "Scaffold Top", "Scaffold::Top", "ScaffoldVolume"),
			block("ScaffoldVolume", geometry.CategoryMesh, "Scaffold Volume", "Scaffold::Volume", "FinalImplant"),
			multiple(block("Screws", geometry.CategoryMesh, "Screws", "Screws::Screws", "ScrewBumps")),
			multiple(block("ScrewBumps", geometry.CategoryMesh, "Screw Bumps", "Screws::Bumps", "FinalImplant")),
			block("FinalImplant", geometry.CategoryMesh, "Final Implant", "Export::Implant"),
		},
	})
}
