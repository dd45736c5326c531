package record

import (
	"encoding/json"
	"fmt"
	"os"
)

// AliasTable maps a logical field name to an ordered list of candidate
// dotted paths, most specific first. The table is data, not logic: form
// variants ship their own table and the resolver stays unchanged.
type AliasTable map[string][]string

// LoadAliases reads an alias table from a JSON file and merges it over the
// defaults. Entries in the file replace the default candidate list for the
// same logical name.
func LoadAliases(path string) (AliasTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read alias table %s: %w", path, err)
	}

	var loaded AliasTable
	if err := json.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("invalid alias table %s: %w", path, err)
	}

	table := DefaultAliases()
	for name, paths := range loaded {
		table[name] = paths
	}
	return table, nil
}

// DefaultAliases returns the built-in alias table covering the standard
// valuation questionnaire. Candidate order encodes source precedence: the
// flattened working name first, then the pdfDetails sub-tree, then the
// legacy top-level spellings.
func DefaultAliases() AliasTable {
	return AliasTable{
		// Identity and contact
		"clientName": {"clientName", "pdfDetails.basicInfo.clientName", "clientDetails.name", "customerName", "name"},
		"mobile":     {"mobile", "pdfDetails.basicInfo.mobile", "clientDetails.mobile", "mobileNumber", "phone"},
		"address":    {"address", "pdfDetails.basicInfo.address", "clientDetails.address", "clientAddress"},
		"bankName":   {"bankName", "pdfDetails.basicInfo.bankName", "bank", "bankDetails.name"},
		"branchName": {"branchName", "pdfDetails.basicInfo.branchName", "branch", "bankDetails.branch"},
		"city":       {"city", "pdfDetails.basicInfo.city", "clientDetails.city"},
		"ownerName":  {"ownerName", "pdfDetails.basicInfo.ownerName", "propertyOwner", "owner"},
		"caseID":     {"caseID", "caseId", "pdfDetails.basicInfo.caseId", "id", "_id"},

		// Report dates and purpose
		"inspectionDate":     {"inspectionDate", "pdfDetails.basicInfo.inspectionDate", "dateOfInspection", "visitDate"},
		"valuationDate":      {"valuationDate", "pdfDetails.basicInfo.valuationDate", "dateOfValuation"},
		"reportDate":         {"reportDate", "pdfDetails.basicInfo.reportDate", "dateOfReport", "createdAt"},
		"purposeOfValuation": {"purposeOfValuation", "pdfDetails.basicInfo.purpose", "purpose", "valuationPurpose"},
		"documentsProduced":  {"documentsProduced", "pdfDetails.basicInfo.documentsProduced", "documentsPerused"},

		// Property location
		"propertyAddress": {"propertyAddress", "pdfDetails.location.address", "propertyDetails.address", "siteAddress"},
		"plotNo":          {"plotNo", "pdfDetails.location.plotNo", "plotNumber", "propertyDetails.plotNo"},
		"surveyNo":        {"surveyNo", "pdfDetails.location.surveyNo", "surveyNumber", "tsNo"},
		"village":         {"village", "pdfDetails.location.village", "propertyDetails.village"},
		"taluka":          {"taluka", "pdfDetails.location.taluka", "taluk", "propertyDetails.taluka"},
		"district":        {"district", "pdfDetails.location.district", "propertyDetails.district"},
		"state":           {"state", "pdfDetails.location.state", "propertyDetails.state"},
		"pinCode":         {"pinCode", "pdfDetails.location.pinCode", "pincode", "postalCode"},
		"latitude":        {"latitude", "pdfDetails.location.latitude", "lat"},
		"longitude":       {"longitude", "pdfDetails.location.longitude", "lng", "long"},
		"nearbyLandmark":  {"nearbyLandmark", "pdfDetails.location.landmark", "landmark"},

		// Area classification
		"areaType":       {"areaType", "pdfDetails.areaClassification.areaType", "localityType"},
		"classification": {"classification", "pdfDetails.areaClassification.classification", "areaClass"},
		"urbanType":      {"urbanType", "pdfDetails.areaClassification.urbanType", "urbanClassification"},
		"comingUnder":    {"comingUnder", "pdfDetails.areaClassification.comingUnder", "jurisdiction"},

		// Boundaries, deed vs site
		"boundaryNorthDeed": {"boundaryNorthDeed", "pdfDetails.boundaries.north.deed", "boundaries.north"},
		"boundarySouthDeed": {"boundarySouthDeed", "pdfDetails.boundaries.south.deed", "boundaries.south"},
		"boundaryEastDeed":  {"boundaryEastDeed", "pdfDetails.boundaries.east.deed", "boundaries.east"},
		"boundaryWestDeed":  {"boundaryWestDeed", "pdfDetails.boundaries.west.deed", "boundaries.west"},
		"boundaryNorthSite": {"boundaryNorthSite", "pdfDetails.boundaries.north.site", "actualBoundaries.north"},
		"boundarySouthSite": {"boundarySouthSite", "pdfDetails.boundaries.south.site", "actualBoundaries.south"},
		"boundaryEastSite":  {"boundaryEastSite", "pdfDetails.boundaries.east.site", "actualBoundaries.east"},
		"boundaryWestSite":  {"boundaryWestSite", "pdfDetails.boundaries.west.site", "actualBoundaries.west"},

		// Dimensions and extent
		"extentDeed":       {"extentDeed", "pdfDetails.dimensions.extentDeed", "extentAsPerDeed"},
		"extentSite":       {"extentSite", "pdfDetails.dimensions.extentSite", "extentAsPerSite"},
		"extentConsidered": {"extentConsidered", "pdfDetails.dimensions.extentConsidered", "extentForValuation"},

		// Land valuation
		"landArea":             {"landArea", "pdfDetails.landValuation.area", "plotArea"},
		"landRatePerSqft":      {"landRatePerSqft", "pdfDetails.landValuation.ratePerSqft", "landRate"},
		"guidelineRate":        {"guidelineRate", "pdfDetails.landValuation.guidelineRate", "govtGuidelineRate"},
		"prevailingMarketRate": {"prevailingMarketRate", "pdfDetails.landValuation.marketRate", "marketRate"},
		"landValue":            {"landValue", "pdfDetails.landValuation.value", "totalLandValue"},

		// Building particulars
		"constructionType":   {"constructionType", "pdfDetails.buildingDetails.constructionType", "typeOfConstruction"},
		"yearOfConstruction": {"yearOfConstruction", "pdfDetails.buildingDetails.yearOfConstruction", "constructionYear"},
		"numberOfFloors":     {"numberOfFloors", "pdfDetails.buildingDetails.floors", "floors"},
		"buildUpArea":        {"buildUpArea", "pdfDetails.buildingDetails.buildUpArea", "builtUpArea"},
		"ageOfBuilding":      {"ageOfBuilding", "pdfDetails.buildingDetails.age", "buildingAge"},
		"residualLife":       {"residualLife", "pdfDetails.buildingDetails.residualLife", "remainingLife"},
		"foundationType":     {"foundationType", "pdfDetails.buildingDetails.foundation", "foundation"},
		"roofType":           {"roofType", "pdfDetails.buildingDetails.roof", "roof"},
		"flooringType":       {"flooringType", "pdfDetails.buildingDetails.flooring", "flooring"},

		// Construction cost analysis line items
		"foundationCost":        {"foundationCost", "pdfDetails.constructionCostAnalysis.foundation"},
		"superStructureCost":    {"superStructureCost", "pdfDetails.constructionCostAnalysis.superStructure"},
		"roofingCost":           {"roofingCost", "pdfDetails.constructionCostAnalysis.roofing"},
		"flooringCost":          {"flooringCost", "pdfDetails.constructionCostAnalysis.flooring"},
		"doorsWindowsCost":      {"doorsWindowsCost", "pdfDetails.constructionCostAnalysis.doorsWindows"},
		"electricalCost":        {"electricalCost", "pdfDetails.constructionCostAnalysis.electrical"},
		"sanitaryCost":          {"sanitaryCost", "pdfDetails.constructionCostAnalysis.sanitary"},
		"finishingCost":         {"finishingCost", "pdfDetails.constructionCostAnalysis.finishing"},
		"constructionCostTotal": {"constructionCostTotal", "pdfDetails.constructionCostAnalysis.total", "totalConstructionCost"},

		// Amenities, checklist booleans
		"hasLift":         {"hasLift", "pdfDetails.amenities.lift", "lift"},
		"hasWaterSupply":  {"hasWaterSupply", "pdfDetails.amenities.waterSupply", "waterSupply"},
		"hasSewerage":     {"hasSewerage", "pdfDetails.amenities.sewerage", "sewerage"},
		"hasCarParking":   {"hasCarParking", "pdfDetails.amenities.carParking", "carParking"},
		"hasCompoundWall": {"hasCompoundWall", "pdfDetails.amenities.compoundWall", "compoundWall"},
		"hasPavement":     {"hasPavement", "pdfDetails.amenities.pavement", "pavement"},
		"hasBorewell":     {"hasBorewell", "pdfDetails.amenities.borewell", "borewell"},

		// Service connections
		"waterConnection":       {"waterConnection", "pdfDetails.services.water", "services.water"},
		"electricityConnection": {"electricityConnection", "pdfDetails.services.electricity", "services.electricity"},
		"drainageConnection":    {"drainageConnection", "pdfDetails.services.drainage", "services.drainage"},

		// Checklist of documents
		"hasSaleDeed":               {"hasSaleDeed", "pdfDetails.checklistOfDocuments.saleDeed"},
		"hasTitleDeed":              {"hasTitleDeed", "pdfDetails.checklistOfDocuments.titleDeed"},
		"hasApprovedPlan":           {"hasApprovedPlan", "pdfDetails.checklistOfDocuments.approvedPlan"},
		"hasTaxReceipt":             {"hasTaxReceipt", "pdfDetails.checklistOfDocuments.taxReceipt"},
		"hasEncumbranceCertificate": {"hasEncumbranceCertificate", "pdfDetails.checklistOfDocuments.encumbranceCertificate"},
		"hasPattaChitta":            {"hasPattaChitta", "pdfDetails.checklistOfDocuments.pattaChitta"},

		// Valuation summary
		"presentMarketValueAmount": {"presentMarketValueAmount", "pdfDetails.valuationSummary.presentMarketValue.amount", "presentMarketValue", "marketValue"},
		"presentMarketValueWords":  {"presentMarketValueWords", "pdfDetails.valuationSummary.presentMarketValue.words", "marketValueWords"},
		"realizableValueAmount":    {"realizableValueAmount", "pdfDetails.valuationSummary.realizableValue.amount", "realizableValue"},
		"realizableValueWords":     {"realizableValueWords", "pdfDetails.valuationSummary.realizableValue.words"},
		"distressValueAmount":      {"distressValueAmount", "pdfDetails.valuationSummary.distressValue.amount", "distressValue", "forcedSaleValue"},
		"distressValueWords":       {"distressValueWords", "pdfDetails.valuationSummary.distressValue.words"},
		"insurableValueAmount":     {"insurableValueAmount", "pdfDetails.valuationSummary.insurableValue.amount", "insurableValue"},
		"insurableValueWords":      {"insurableValueWords", "pdfDetails.valuationSummary.insurableValue.words"},
		"guidelineValueAmount":     {"guidelineValueAmount", "pdfDetails.valuationSummary.guidelineValue.amount", "guidelineValue"},

		// Signature block
		"valuerName":          {"valuerName", "pdfDetails.signatureDetails.valuerName", "valuer"},
		"valuerQualification": {"valuerQualification", "pdfDetails.signatureDetails.qualification"},
		"valuerRegNo":         {"valuerRegNo", "pdfDetails.signatureDetails.registrationNo", "registrationNumber"},
		"place":               {"place", "pdfDetails.signatureDetails.place"},
		"signatureDate":       {"signatureDate", "pdfDetails.signatureDetails.date", "reportDate"},
	}
}
