package heuristic

// Candidate pools for the synthesized analysis fields. Selection is uniform
// and independent per field.

var targetAudiences = []string{
	"Small to medium businesses (SMBs) in retail and e-commerce",
	"Enterprise software development teams",
	"Digital marketing agencies and consultants",
	"Healthcare providers and medical practices",
	"Educational institutions and online learning platforms",
	"Financial services and fintech companies",
	"Real estate professionals and property managers",
	"Manufacturing and supply chain companies",
	"Professional services firms (legal, accounting, consulting)",
	"Non-profit organizations and NGOs",
}

var problemsSolved = []string{
	"Inefficient manual processes leading to time waste and errors",
	"Lack of real-time data visibility and analytics",
	"Poor communication and collaboration between teams",
	"Difficulty in tracking and managing customer relationships",
	"Complex workflow management and task coordination",
	"Inadequate reporting and business intelligence capabilities",
	"Security vulnerabilities and compliance challenges",
	"Scalability issues with existing legacy systems",
	"High operational costs and resource inefficiencies",
	"Limited integration capabilities with existing tools",
}

var proposedSolutions = []string{
	"Cloud-based automation platform with AI-powered workflow optimization",
	"Real-time dashboard with advanced analytics and predictive insights",
	"Integrated communication hub with project management capabilities",
	"Comprehensive CRM system with automated lead nurturing",
	"Intelligent task management with resource allocation optimization",
	"Self-service business intelligence platform with custom reporting",
	"Zero-trust security framework with automated compliance monitoring",
	"Microservices architecture enabling seamless scalability",
	"Cost optimization engine with automated resource management",
	"Universal API gateway with pre-built integrations",
}

var competitorSets = [][]string{
	{"Salesforce", "HubSpot", "Pipedrive"},
	{"Microsoft Teams", "Slack", "Asana"},
	{"Tableau", "Power BI", "Looker"},
	{"AWS", "Azure", "Google Cloud"},
	{"Shopify", "WooCommerce", "BigCommerce"},
	{"Zoom", "WebEx", "Google Meet"},
	{"QuickBooks", "Xero", "FreshBooks"},
	{"Jira", "Trello", "Monday.com"},
	{"Mailchimp", "Constant Contact", "SendGrid"},
	{"Zendesk", "Freshdesk", "Intercom"},
}

var scalabilityOptions = []string{
	"Horizontal scaling with microservices architecture and containerization",
	"Global expansion through multi-region cloud deployment",
	"Vertical market expansion with industry-specific modules",
	"API-first approach enabling third-party integrations and partnerships",
	"White-label solutions for reseller and partner channels",
	"Enterprise-grade features with advanced security and compliance",
	"Mobile-first design supporting iOS and Android platforms",
	"AI/ML capabilities for predictive analytics and automation",
	"Multi-tenant architecture supporting unlimited users",
	"Marketplace ecosystem for third-party plugins and extensions",
}

var revenueModels = []string{
	"Freemium model with premium features and advanced analytics",
	"Tiered subscription pricing based on usage and features",
	"Per-seat pricing with volume discounts for enterprises",
	"Usage-based pricing with pay-as-you-scale model",
	"Enterprise licensing with custom implementation services",
	"Marketplace commission model with transaction fees",
	"Professional services and consulting revenue streams",
	"White-label licensing to partners and resellers",
	"Data monetization through anonymized insights and benchmarks",
	"Hybrid model combining subscriptions with one-time setup fees",
}

var legacyIssues = []string{
	"Complex navigation structure may confuse users",
	"Too many required form fields could cause abandonment",
	"Lack of clear call-to-action buttons",
	"Insufficient visual hierarchy in content layout",
	"Missing feedback for user actions",
	"Poor mobile responsiveness detected",
	"Long loading times may impact user experience",
	"Unclear error messages and validation",
	"Inconsistent design patterns across pages",
	"Accessibility concerns for screen readers",
}

var legacyRecommendations = []string{
	"Simplify navigation with clear menu categories",
	"Reduce form fields to essential information only",
	"Add prominent, contrasting call-to-action buttons",
	"Implement clear visual hierarchy with proper spacing",
	"Provide immediate feedback for all user interactions",
	"Optimize layout for mobile-first design approach",
	"Implement progressive loading and performance optimization",
	"Write clear, actionable error messages",
	"Establish consistent design system and style guide",
	"Add ARIA labels and improve semantic HTML structure",
}
