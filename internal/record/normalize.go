package record

import "strings"

// ArrayFields are passed through normalization verbatim. They are never
// field-resolved, only handed to the image pipeline.
var ArrayFields = []string{"propertyImages", "locationImages", "documentPreviews", "areaImages"}

// costLineItems are the construction-cost-analysis rows summed into
// constructionCostTotal when no explicit total was supplied.
var costLineItems = []string{
	"foundationCost", "superStructureCost", "roofingCost", "flooringCost",
	"doorsWindowsCost", "electricalCost", "sanitaryCost", "finishingCost",
}

// flattener copies one nested section of the raw record into the flat
// working object. Flatteners run in documented priority order and only set
// destinations not already claimed by a higher priority source.
type flattener struct {
	name  string
	apply func(src, dst Record)
}

// Normalize flattens the record's nested legacy shapes into one working
// object. Precedence: the pdfDetails sub-tree first, then root-level
// aliases, then legacy nested objects, then computed defaults. The input
// record is never mutated; nested sub-trees are retained on the result so
// alias fallback chains into them keep working.
//
// Normalize is idempotent: normalizing an already-normalized record yields
// the same flat fields.
func Normalize(r Record) Record {
	dst := Record{}
	for _, f := range sectionFlatteners() {
		f.apply(r, dst)
	}

	// Array-valued fields pass through verbatim.
	for _, key := range ArrayFields {
		if v, ok := r[key]; ok && v != nil {
			dst[key] = v
		}
	}

	// Keep every remaining root entry, nested sub-trees included.
	for k, v := range r {
		if _, claimed := dst[k]; !claimed && v != nil {
			dst[k] = v
		}
	}

	computeDerived(dst)
	return dst
}

func sectionFlatteners() []flattener {
	return []flattener{
		{"pdfDetails.basicInfo", flattenSection("pdfDetails.basicInfo", map[string]string{
			"clientName": "clientName", "mobile": "mobile", "address": "address",
			"bankName": "bankName", "branchName": "branchName", "city": "city",
			"ownerName": "ownerName", "caseId": "caseID",
			"inspectionDate": "inspectionDate", "valuationDate": "valuationDate",
			"reportDate": "reportDate", "purpose": "purposeOfValuation",
			"documentsProduced": "documentsProduced",
		})},
		{"pdfDetails.location", flattenSection("pdfDetails.location", map[string]string{
			"address": "propertyAddress", "plotNo": "plotNo", "surveyNo": "surveyNo",
			"village": "village", "taluka": "taluka", "district": "district",
			"state": "state", "pinCode": "pinCode", "latitude": "latitude",
			"longitude": "longitude", "landmark": "nearbyLandmark",
		})},
		{"pdfDetails.areaClassification", flattenSection("pdfDetails.areaClassification", map[string]string{
			"areaType": "areaType", "classification": "classification",
			"urbanType": "urbanType", "comingUnder": "comingUnder",
		})},
		{"pdfDetails.boundaries", flattenBoundaries},
		{"pdfDetails.dimensions", flattenSection("pdfDetails.dimensions", map[string]string{
			"extentDeed": "extentDeed", "extentSite": "extentSite",
			"extentConsidered": "extentConsidered",
		})},
		{"pdfDetails.landValuation", flattenSection("pdfDetails.landValuation", map[string]string{
			"area": "landArea", "ratePerSqft": "landRatePerSqft",
			"guidelineRate": "guidelineRate", "marketRate": "prevailingMarketRate",
			"value": "landValue",
		})},
		{"pdfDetails.buildingDetails", flattenSection("pdfDetails.buildingDetails", map[string]string{
			"constructionType": "constructionType", "yearOfConstruction": "yearOfConstruction",
			"floors": "numberOfFloors", "buildUpArea": "buildUpArea",
			"age": "ageOfBuilding", "residualLife": "residualLife",
			"foundation": "foundationType", "roof": "roofType", "flooring": "flooringType",
		})},
		{"pdfDetails.constructionCostAnalysis", flattenSection("pdfDetails.constructionCostAnalysis", map[string]string{
			"foundation": "foundationCost", "superStructure": "superStructureCost",
			"roofing": "roofingCost", "flooring": "flooringCost",
			"doorsWindows": "doorsWindowsCost", "electrical": "electricalCost",
			"sanitary": "sanitaryCost", "finishing": "finishingCost",
			"total": "constructionCostTotal",
		})},
		{"pdfDetails.amenities", flattenSection("pdfDetails.amenities", map[string]string{
			"lift": "hasLift", "waterSupply": "hasWaterSupply", "sewerage": "hasSewerage",
			"carParking": "hasCarParking", "compoundWall": "hasCompoundWall",
			"pavement": "hasPavement", "borewell": "hasBorewell",
		})},
		{"pdfDetails.services", flattenSection("pdfDetails.services", map[string]string{
			"water": "waterConnection", "electricity": "electricityConnection",
			"drainage": "drainageConnection",
		})},
		{"pdfDetails.checklistOfDocuments", flattenSection("pdfDetails.checklistOfDocuments", map[string]string{
			"saleDeed": "hasSaleDeed", "titleDeed": "hasTitleDeed",
			"approvedPlan": "hasApprovedPlan", "taxReceipt": "hasTaxReceipt",
			"encumbranceCertificate": "hasEncumbranceCertificate",
			"pattaChitta":            "hasPattaChitta",
		})},
		{"pdfDetails.signatureDetails", flattenSection("pdfDetails.signatureDetails", map[string]string{
			"valuerName": "valuerName", "qualification": "valuerQualification",
			"registrationNo": "valuerRegNo", "place": "place", "date": "signatureDate",
		})},
		{"pdfDetails.valuationSummary", flattenValuationSummary},
		{"root", flattenRootScalars},
		{"clientDetails", flattenSection("clientDetails", map[string]string{
			"name": "clientName", "mobile": "mobile", "address": "address", "city": "city",
		})},
		{"propertyDetails", flattenSection("propertyDetails", map[string]string{
			"address": "propertyAddress", "plotNo": "plotNo", "village": "village",
			"taluka": "taluka", "district": "district", "state": "state",
		})},
		{"bankDetails", flattenSection("bankDetails", map[string]string{
			"name": "bankName", "branch": "branchName",
		})},
	}
}

// flattenSection builds a flattener that copies scalar keys of one nested
// map into the working object under renamed destinations.
func flattenSection(path string, rename map[string]string) func(src, dst Record) {
	return func(src, dst Record) {
		sec := src.section(path)
		if sec == nil {
			return
		}
		for from, to := range rename {
			setIfUnset(dst, to, sec[from])
		}
	}
}

func flattenBoundaries(src, dst Record) {
	sec := src.section("pdfDetails.boundaries")
	if sec == nil {
		return
	}
	for _, side := range []struct{ key, dest string }{
		{"north", "boundaryNorth"},
		{"south", "boundarySouth"},
		{"east", "boundaryEast"},
		{"west", "boundaryWest"},
	} {
		switch v := sec[side.key].(type) {
		case map[string]any:
			setIfUnset(dst, side.dest+"Deed", v["deed"])
			setIfUnset(dst, side.dest+"Site", v["site"])
		default:
			// Older forms stored a single string per side.
			setIfUnset(dst, side.dest+"Deed", v)
		}
	}
}

func flattenValuationSummary(src, dst Record) {
	sec := src.section("pdfDetails.valuationSummary")
	if sec == nil {
		return
	}
	for _, field := range []string{
		"presentMarketValue", "realizableValue", "distressValue",
		"insurableValue", "guidelineValue",
	} {
		switch v := sec[field].(type) {
		case map[string]any:
			setIfUnset(dst, field+"Amount", v["amount"])
			setIfUnset(dst, field+"Words", v["words"])
		default:
			setIfUnset(dst, field+"Amount", v)
		}
	}
}

// flattenRootScalars carries every scalar already sitting at the record's
// top level, so legacy flat records and re-normalized records survive
// unchanged.
func flattenRootScalars(src, dst Record) {
	for k, v := range src {
		switch v.(type) {
		case string, bool, float64, int, int64:
			setIfUnset(dst, k, v)
		}
	}
}

// computeDerived fills values the forms frequently omit: the word form of
// each valuation amount, and the construction cost total.
func computeDerived(dst Record) {
	for _, field := range []string{
		"presentMarketValue", "realizableValue", "distressValue", "insurableValue",
	} {
		amount, ok := amountOf(dst[field+"Amount"])
		if !ok {
			continue
		}
		setIfUnset(dst, field+"Words", Rupees(amount))
	}

	if !isUsable(dst["constructionCostTotal"]) {
		total := 0.0
		found := false
		for _, item := range costLineItems {
			if v, ok := amountOf(dst[item]); ok {
				total += v
				found = true
			}
		}
		if found {
			dst["constructionCostTotal"] = total
		}
	}
}

func amountOf(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		return ParseAmount(n)
	default:
		return 0, false
	}
}

// setIfUnset claims a destination for the current source only when no
// higher priority source already produced a usable value.
func setIfUnset(dst Record, key string, v any) {
	if !isUsable(v) {
		return
	}
	if isUsable(dst[key]) {
		return
	}
	dst[key] = v
}

// isUsable mirrors the resolver's unset semantics: nil, empty strings and
// the "NA" placeholder do not count as values.
func isUsable(v any) bool {
	switch s := v.(type) {
	case nil:
		return false
	case string:
		trimmed := strings.TrimSpace(s)
		return trimmed != "" && !strings.EqualFold(trimmed, DefaultFallback)
	default:
		return true
	}
}
