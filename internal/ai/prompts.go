package ai

import "fmt"

const blogSystemPrompt = "You are a professional content writer specializing in converting video content into engaging blog posts."

func blogUserPrompt(transcript, videoTitle, channelName string) string {
	return fmt.Sprintf(`Convert this YouTube video transcript into an engaging, well-structured blog post.

Video Title: %s
Channel: %s

Transcript:
%s

Instructions:
1. Create an engaging, SEO-friendly title that captures the essence of the content
2. Write a comprehensive blog post in markdown: a compelling introduction, clear ## and ### headings, short paragraphs, bullet or numbered lists where they help, important concepts in **bold**, and a conclusion that summarizes key takeaways
3. Use a professional yet conversational tone and make the content scannable and valuable to readers
4. Create a detailed thumbnail prompt for an image model: describe the main subject, composition, colors, style, and mood; under 1000 characters; visual elements only, no text in the image

Respond with a JSON object with keys "title", "content" and "thumbnailPrompt".`,
		videoTitle, channelName, transcript)
}
