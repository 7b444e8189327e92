package store

import (
	"time"

	"docmanager/internal/auth"
	"docmanager/internal/model"
)

// Fixtures is the content of a freshly seeded store.
type Fixtures struct {
	Users     []model.User
	Documents []model.Document
}

// SeedFunc builds fixtures. It is called on first use of an empty
// collection and on Reset.
type SeedFunc func() (Fixtures, error)

// SeedCredential is a login usable against the default seed.
type SeedCredential struct {
	Email    string
	Password string
	Role     model.Role
}

// SeedCredentials lists the accounts created by DefaultSeed.
var SeedCredentials = []SeedCredential{
	{Email: "admin@docmanager.com", Password: "admin123", Role: model.RoleAdmin},
	{Email: "alice@example.com", Password: "alice123", Role: model.RoleUser},
	{Email: "bob@example.com", Password: "bob123", Role: model.RoleUser},
}

// Seed ids, stable so that tests and fixtures can refer to them.
const (
	SeedAdminID = "user-001"
	SeedAliceID = "user-002"
	SeedBobID   = "user-003"
)

// DefaultSeed returns one admin, two regular users and a fixed catalogue of
// documents spread across them, with public and window-restricted examples.
func DefaultSeed() (Fixtures, error) {
	users := []model.User{
		{ID: SeedAdminID, Role: model.RoleAdmin, FirstName: "John", LastName: "Administrator", CreatedAt: mustTime("2024-01-15T10:00:00Z"), IsActive: true},
		{ID: SeedAliceID, Role: model.RoleUser, FirstName: "Alice", LastName: "Johnson", CreatedAt: mustTime("2024-02-20T14:30:00Z"), IsActive: true},
		{ID: SeedBobID, Role: model.RoleUser, FirstName: "Bob", LastName: "Smith", CreatedAt: mustTime("2024-03-10T09:15:00Z"), IsActive: true},
	}
	for i := range users {
		hash, err := auth.HashPassword(SeedCredentials[i].Password)
		if err != nil {
			return Fixtures{}, err
		}
		users[i].Email = SeedCredentials[i].Email
		users[i].PasswordHash = hash
	}
	return Fixtures{Users: users, Documents: seedDocuments()}, nil
}

func seedDocuments() []model.Document {
	return []model.Document{
		{
			ID: "doc-001", OwnerID: SeedAliceID, OwnerName: "Alice Johnson",
			Filename: "Q4_Financial_Report_2024.pdf", FileType: "pdf", FileSizeBytes: 2516582,
			UploadDate: mustTime("2024-11-15T10:30:00Z"),
			Title:      "Q4 Financial Report 2024", Description: "Quarterly financial analysis and projections",
			Summary:         "This document contains the Q4 2024 financial report with quarterly earnings, revenue breakdown by department, and year-over-year comparison. Key highlights include a 15% increase in revenue, improved profit margins of 23%, and successful expansion into three new markets.",
			Keywords:        []string{"financial", "quarterly report", "revenue", "earnings", "Q4 2024", "profit margins", "growth"},
			ContentLocation: "https://www.w3.org/WAI/WCAG21/Techniques/pdf/img/table-word.pdf",
		},
		{
			ID: "doc-002", OwnerID: SeedAliceID, OwnerName: "Alice Johnson",
			Filename: "Project_Proposal_AI_Integration.docx", FileType: "docx", FileSizeBytes: 876544,
			UploadDate:  mustTime("2024-10-28T14:45:00Z"),
			AccessStart: timePtr("2024-10-01T00:00:00Z"), AccessEnd: timePtr("2025-12-31T23:59:59Z"),
			Title: "AI Integration Proposal", Description: "Proposal for AI-powered document analysis features",
			Summary:         "A comprehensive proposal for integrating AI capabilities into the existing document management system. The proposal outlines a 6-month implementation timeline, a budget of $150,000, and projects a 40% improvement in document processing efficiency.",
			Keywords:        []string{"AI", "proposal", "integration", "machine learning", "automation", "ROI", "efficiency"},
			ContentLocation: "/mock-files/ai-proposal.docx",
		},
		{
			ID: "doc-006", OwnerID: SeedAliceID, OwnerName: "Alice Johnson",
			Filename: "Marketing_Campaign_Results.xlsx", FileType: "xlsx", FileSizeBytes: 1258291,
			UploadDate: mustTime("2024-12-01T09:15:00Z"),
			Title:      "Marketing Campaign Results", Description: "Q3 marketing performance analytics",
			Summary:         "Comprehensive analysis of Q3 marketing campaign performance across digital channels. Key metrics include 250% ROI on social media spend, 45% increase in organic traffic, and 12,000 new leads generated from paid campaigns.",
			Keywords:        []string{"marketing", "campaign", "analytics", "ROI", "leads", "social media", "digital"},
			ContentLocation: "/mock-files/marketing-results.xlsx",
		},
		{
			ID: "doc-007", OwnerID: SeedAliceID, OwnerName: "Alice Johnson",
			Filename: "Team_Photo_Retreat_2024.jpg", FileType: "jpg", FileSizeBytes: 5033164,
			UploadDate: mustTime("2024-11-28T16:30:00Z"), IsPublic: true,
			Title: "Team Photo - Retreat 2024", Description: "Annual company retreat group photo",
			Summary:         "Group photograph from the 2024 annual company retreat held at Mountain View Resort. The image shows 47 team members participating in team-building activities outdoors.",
			Keywords:        []string{"team", "photo", "retreat", "company event", "2024", "employees"},
			ContentLocation: "https://picsum.photos/seed/retreat2024/1200/800",
		},
		{
			ID: "doc-003", OwnerID: SeedBobID, OwnerName: "Bob Smith",
			Filename: "Employee_Handbook_2024.pdf", FileType: "pdf", FileSizeBytes: 1887436,
			UploadDate: mustTime("2024-09-05T09:00:00Z"), IsPublic: true,
			Title: "Employee Handbook 2024", Description: "Company policies and guidelines for all employees",
			Summary:         "The official 2024 employee handbook covering company policies, benefits, code of conduct, and workplace guidelines. This edition includes updated remote work policies, mental health resources, and the new parental leave program.",
			Keywords:        []string{"handbook", "policies", "HR", "employee", "benefits", "remote work", "guidelines"},
			ContentLocation: "https://www.africau.edu/images/default/sample.pdf",
		},
		{
			ID: "doc-004", OwnerID: SeedBobID, OwnerName: "Bob Smith",
			Filename: "Meeting_Notes_Nov2024.txt", FileType: "txt", FileSizeBytes: 24576,
			UploadDate:  mustTime("2024-11-20T16:20:00Z"),
			AccessStart: timePtr("2024-11-01T00:00:00Z"), AccessEnd: timePtr("2024-11-30T23:59:59Z"),
			Title: "November Meeting Notes", Description: "Team meeting notes and action items",
			Summary:         "Notes from the November 2024 team meeting discussing project milestones, upcoming deadlines, and resource allocation for Q1 2025. Action items assigned to 8 team members with target completion by end of month.",
			Keywords:        []string{"meeting", "notes", "milestones", "planning", "team", "deadlines", "Q1 2025"},
			ContentLocation: "/mock-files/meeting-notes.txt",
		},
		{
			ID: "doc-008", OwnerID: SeedBobID, OwnerName: "Bob Smith",
			Filename: "Product_Roadmap_2025.pptx", FileType: "pptx", FileSizeBytes: 5872025,
			UploadDate: mustTime("2024-11-25T11:00:00Z"),
			Title:      "Product Roadmap 2025", Description: "Strategic product planning for next year",
			Summary:         "Strategic product roadmap presentation for 2025, outlining 4 major product releases, 12 feature enhancements, and integration with 3 new third-party platforms. Includes competitor analysis and market positioning strategy.",
			Keywords:        []string{"roadmap", "product", "strategy", "2025", "features", "planning", "releases"},
			ContentLocation: "/mock-files/roadmap-2025.pptx",
		},
		{
			ID: "doc-009", OwnerID: SeedBobID, OwnerName: "Bob Smith",
			Filename: "Office_Floor_Plan.png", FileType: "png", FileSizeBytes: 2202009,
			UploadDate: mustTime("2024-10-15T14:30:00Z"), IsPublic: true,
			Title: "Office Floor Plan", Description: "New headquarters layout diagram",
			Summary:         "Updated floor plan for the new headquarters office space showing desk assignments, meeting room locations, and common areas. The layout accommodates 120 workstations with 8 conference rooms and 4 collaboration zones.",
			Keywords:        []string{"floor plan", "office", "layout", "workspace", "headquarters", "design"},
			ContentLocation: "https://picsum.photos/seed/floorplan/1600/900",
		},
		{
			ID: "doc-005", OwnerID: SeedAdminID, OwnerName: "John Administrator",
			Filename: "System_Architecture_Diagram.png", FileType: "png", FileSizeBytes: 3355443,
			UploadDate: mustTime("2024-08-12T11:00:00Z"),
			Title:      "System Architecture", Description: "Technical architecture overview of the platform",
			Summary:         "High-level system architecture diagram showing the document management platform infrastructure, including 5 microservices, PostgreSQL and Redis databases, AWS deployment, and API gateway configuration.",
			Keywords:        []string{"architecture", "diagram", "infrastructure", "system design", "technical", "microservices", "AWS"},
			ContentLocation: "https://picsum.photos/seed/architecture/1400/1000",
		},
		{
			ID: "doc-010", OwnerID: SeedAdminID, OwnerName: "John Administrator",
			Filename: "Security_Audit_Report.pdf", FileType: "pdf", FileSizeBytes: 911360,
			UploadDate: mustTime("2024-12-02T10:00:00Z"),
			Title:      "Security Audit Report", Description: "Annual security assessment and findings",
			Summary:         "Annual security audit report conducted by external firm CyberSecure Inc. The audit found 2 critical vulnerabilities (now patched), 5 medium-severity issues, and overall compliance with SOC 2 Type II standards.",
			Keywords:        []string{"security", "audit", "compliance", "vulnerabilities", "SOC 2", "cybersecurity", "report"},
			ContentLocation: "https://www.w3.org/WAI/WCAG21/Techniques/pdf/img/table-word.pdf",
		},
		{
			ID: "doc-011", OwnerID: SeedAdminID, OwnerName: "John Administrator",
			Filename: "API_Documentation.json", FileType: "json", FileSizeBytes: 159744,
			UploadDate: mustTime("2024-11-10T15:45:00Z"), IsPublic: true,
			Title: "API Documentation", Description: "REST API specification and reference",
			Summary:         "OpenAPI 3.0 specification for the document management REST API. Includes 45 endpoints across 8 resource categories: documents, users, authentication, uploads, search, analytics, webhooks, and administration.",
			Keywords:        []string{"API", "documentation", "REST", "OpenAPI", "endpoints", "developers", "integration"},
			ContentLocation: "/mock-files/api-docs.json",
		},
		{
			ID: "doc-012", OwnerID: SeedAdminID, OwnerName: "John Administrator",
			Filename: "Database_Schema_v2.svg", FileType: "svg", FileSizeBytes: 79872,
			UploadDate:  mustTime("2024-10-20T09:30:00Z"),
			AccessStart: timePtr("2024-10-01T00:00:00Z"), AccessEnd: timePtr("2025-06-30T23:59:59Z"),
			Title: "Database Schema v2", Description: "Database design documentation",
			Summary:         "Entity-relationship diagram for the document management database schema version 2. Shows 24 tables including documents, users, permissions, audit_logs, and the new analytics tables added in this version.",
			Keywords:        []string{"database", "schema", "ERD", "tables", "design", "PostgreSQL", "data model"},
			ContentLocation: "/mock-files/db-schema.svg",
		},
	}
}

func mustTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func timePtr(s string) *time.Time {
	t := mustTime(s)
	return &t
}
