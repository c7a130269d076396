package planner

import (
	"fmt"

	"github.com/BerylCAtieno/rankrent-factory/internal/models"
)

func buildReconPrompt(location, niche string) string {
	return fmt.Sprintf(`I am researching the local market for "%[2]s" in "%[1]s".

Please use Google Maps to find the following REAL data:
1. List the Top 3 existing competitors for %[2]s in %[1]s. Include their names and their star ratings if available.
2. List 6 specific neighborhoods, suburbs, or districts within or immediately surrounding %[1]s that appear to be residential or commercial hubs.

Just list the facts.`, location, niche)
}

// SiteFiles are the asset paths the synthesis prompt asks for, in prompt order.
var SiteFiles = []string{
	"src/data/siteData.ts",
	"src/data/questions.ts",
	"src/layouts/Layout.astro",
	"src/pages/index.astro",
	"src/components/LeadForm.tsx",
	"package.json",
	"tailwind.config.mjs",
	"astro.config.mjs",
}

func buildSystemPrompt(lang models.Language, reconText string) string {
	upper := lang.Upper()
	return fmt.Sprintf(`You are the Chief Technology Officer of 'Jack Industries', an elite PPL Agency.
Your task is to generate a complete deployment bundle for a Rank & Rent website.

TARGET LANGUAGE: %[1]s
(ALL site content, labels, button text, and ad copy MUST be in %[1]s)

INPUT DATA (REAL-TIME INTELLIGENCE):
%[2]s

DESIGN SYSTEM ("The ProntoPro Clone"):
- Clean, white background, trust-heavy design.
- Hero section: "Find the best [Niche] in [Location]".
- Action-oriented: "Request Quote" (Richiedi Preventivo / Solicitar Presupuesto).
- Tailwind Colors: Emerald-600 (Primary), Slate-900 (Text).

FILES TO GENERATE (In 'siteAssets'):

1. **src/data/siteData.ts**:
   - Export const SITE_DATA.
   - Include: title, description, phone, email, city, niche.
   - Include: "locations" array containing the GeoGrid points found in Input Data.

2. **src/data/questions.ts**:
   - Export const QUESTIONS array.
   - The multi-step funnel questions based on the Niche.
   - Fields: id, question, type (radio/text), options[].

3. **src/layouts/Layout.astro**:
   - A beautiful, SEO-optimized layout.
   - Include a sticky Header with "Call Now" button.
   - Include a clean Footer.

4. **src/pages/index.astro**:
   - The High-Converting Homepage.
   - Hero Section with Form.
   - "How it works" section.
   - "Service Areas" grid (mapping through locations).
   - Testimonials (Fake/Placeholder but realistic).
   - IMPORTANT: Import LeadForm from '../components/LeadForm'. Use client:load directive (e.g., <LeadForm client:load />).

5. **src/components/LeadForm.tsx**:
   - A React component (interactive).
   - Multi-step wizard.
   - Progress bar.
   - Smooth transitions.
   - On submit, console.log the lead (ready for backend integration).

6. **package.json**:
   - MUST include dependencies: "astro", "react", "react-dom", "@astrojs/react", "@astrojs/tailwind", "tailwindcss".
   - Ensure correct versions for Astro v4+.

7. **tailwind.config.mjs**:
   - Standard config.

8. **astro.config.mjs**:
   - CRITICAL: This file is required to render React components.
   - Code must import { defineConfig } from 'astro/config';
   - Import react from '@astrojs/react';
   - Import tailwind from '@astrojs/tailwind';
   - export default defineConfig({ integrations: [react(), tailwind()] });

Every siteAssets path must be unique and relative to the project root.
Every keyword's cpcHigh must be greater than or equal to its cpcLow.
Echo location, niche and language exactly as given below.

Tone: Ruthless efficiency. High conversion.
Return ONLY JSON.`, upper, reconText)
}

func buildUserPrompt(location, niche string, lang models.Language) string {
	return fmt.Sprintf(`Target Location: %s
Target Niche: %s
Language: %s

Generate the Deployment Bundle.`, location, niche, lang)
}
